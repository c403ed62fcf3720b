// Package scheduler implements the autosave state machine for pKV stores.
// A scheduler sits between the store's mutations and its persistence
// backend and decides when the store's SaveFunc actually runs.
//
// Key Features:
//   - Three policies: disabled (manual saves only), immediate (save on
//     every mutation) and debounced (save once the store has been quiet
//     for a window)
//   - Coalescing: any number of mutations inside a debounce window produce
//     exactly one disk write
//   - At most one save in flight at any time; a mutation that arrives
//     while a save is running schedules exactly one follow-up so the final
//     state always reaches disk
//   - Race-free timer resets via a generation counter: a timer callback
//     that lost against a reset becomes a no-op instead of firing with a
//     stale window
//
// Implementation Details:
//
//   - The state machine is Idle -> Armed -> Saving. Mutations in Idle arm
//     the timer, mutations in Armed reset it, mutations in Saving set a
//     pending flag that the running save picks up when it finishes.
//
//   - A failed save moves the scheduler back to Idle and drops any pending
//     follow-up; there is no automatic retry. Errors from timer-driven
//     saves go to the ErrorSink, errors from Mutated (immediate policy)
//     and Flush are returned to the caller.
//
//   - Under a concurrent immediate-policy load, a mutation that arrives
//     while another mutation's save is running is folded into a follow-up
//     save; its error, if any, is returned to the mutator driving that
//     follow-up rather than the one that queued it.
package scheduler
