package scheduler

import (
	"fmt"
	"time"
)

// --------------------------------------------------------------------------
// Save Policy
// --------------------------------------------------------------------------

// PolicyKind enumerates the autosave strategies a scheduler can run.
type PolicyKind uint8

const (
	// PolicyDisabled never triggers saves on mutation. Saves only happen
	// when Flush is called explicitly.
	PolicyDisabled PolicyKind = iota
	// PolicyImmediate runs a save synchronously after every mutation.
	PolicyImmediate
	// PolicyDebounced coalesces mutations: each mutation (re)arms a timer
	// and the save runs once the store has been quiet for the window.
	PolicyDebounced
)

// String implements the fmt.Stringer interface.
func (k PolicyKind) String() string {
	switch k {
	case PolicyDisabled:
		return "disabled"
	case PolicyImmediate:
		return "immediate"
	case PolicyDebounced:
		return "debounced"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// Policy describes when a scheduler persists mutations.
type Policy struct {
	Kind   PolicyKind
	Window time.Duration // debounce window, only meaningful for PolicyDebounced
}

// Disabled returns a policy that never saves on mutation.
func Disabled() Policy {
	return Policy{Kind: PolicyDisabled}
}

// Immediate returns a policy that saves synchronously on every mutation.
func Immediate() Policy {
	return Policy{Kind: PolicyImmediate}
}

// Debounced returns a policy that saves once the store has been quiet for
// the given window. A non-positive window degrades to Immediate.
func Debounced(window time.Duration) Policy {
	if window <= 0 {
		return Immediate()
	}
	return Policy{Kind: PolicyDebounced, Window: window}
}

// String implements the fmt.Stringer interface.
func (p Policy) String() string {
	if p.Kind == PolicyDebounced {
		return fmt.Sprintf("debounced(%s)", p.Window)
	}
	return p.Kind.String()
}

// --------------------------------------------------------------------------
// Scheduler State
// --------------------------------------------------------------------------

// State describes what a scheduler is currently doing.
type State uint8

const (
	// StateIdle means no save is pending or running.
	StateIdle State = iota
	// StateArmed means the debounce timer is running and a save will fire
	// at the deadline unless reset first.
	StateArmed
	// StateSaving means a save is currently executing.
	StateSaving
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateArmed:
		return "armed"
	case StateSaving:
		return "saving"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// SaveFunc persists the current state of the owning store. The scheduler
// guarantees that at most one SaveFunc invocation runs at a time.
type SaveFunc func() error

// ErrorSink receives errors from saves that run asynchronously (timer
// fired) where no caller is around to take the error.
type ErrorSink func(err error)

// ISaveScheduler decides when the store's SaveFunc runs. It implements the
// debounce state machine: mutations either trigger a save directly
// (immediate), arm or reset a timer (debounced), or do nothing (disabled).
type ISaveScheduler interface {
	// Mutated signals that the store changed. Under PolicyImmediate the
	// save runs before Mutated returns and its error is returned; under
	// PolicyDebounced the timer is armed or reset and nil is returned;
	// under PolicyDisabled this is a no-op
	Mutated() (err error)
	// Flush cancels any armed timer and runs the save synchronously,
	// regardless of policy. The save error is returned to the caller
	// and not sent to the error sink
	Flush() (err error)
	// Cancel discards any armed timer and any pending follow-up save
	// without saving. An in-flight save is not interrupted
	Cancel()
	// State returns what the scheduler is currently doing
	State() State
	// Deadline returns the time the armed timer will fire. The boolean
	// is false unless the scheduler is in StateArmed
	Deadline() (deadline time.Time, armed bool)
	// Close cancels any armed timer and waits for an in-flight save to
	// finish. The scheduler must not be used afterwards
	Close() (err error)
}
