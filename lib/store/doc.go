// Package store implements the process-local persistent key-value store.
// A store holds a structured mapping (see the value package) in memory,
// serves all reads from it, and persists snapshots to a backend according
// to its auto-save policy.
//
// Key Features:
//   - Reads never touch disk; the in-memory mapping is the source of truth
//     and always reflects the most recent mutation
//   - Mutations are coalesced by the save scheduler: a burst of writes
//     produces one disk write once the store has been quiet for the
//     debounce window (or one write per mutation under the immediate
//     policy, or none at all when auto-save is disabled)
//   - Dirty tracking via a mutation generation counter: a completed save
//     only clears the dirty flag when no mutation happened after its
//     snapshot was taken
//   - Defaults: a fresh store (no snapshot on disk) starts from the
//     configured default mapping, and Reset returns to it at any time
//
// Concurrency:
//
// All IStore methods are safe for concurrent use. The mapping is guarded
// by a sync.RWMutex whose critical sections cover only the map update;
// snapshots are deep clones taken under the read lock and written to disk
// outside of it, serialized per store by an I/O mutex. At most one save is
// in flight per store at any time; a mutation that lands while a save is
// running schedules exactly one follow-up save.
//
// Usage:
//
//	s, err := store.NewStore("settings", store.DefaultOptions("data/settings.json"))
//	if err != nil { ... }
//	defer s.Close(ctx)
//
//	s.Set("theme", value.String("dark"))
//	v, ok := s.Get("theme")
package store
