package scheduler

import (
	"sync"
	"time"

	"github.com/lni/dragonboat/v4/logger"
)

var schedLogger = logger.GetLogger("scheduler")

// NewSaveScheduler creates a scheduler that runs save according to policy.
// Errors from asynchronous saves (timer fired) are delivered to onError;
// a nil onError drops them after logging. The save function must be safe
// to call from arbitrary goroutines.
func NewSaveScheduler(policy Policy, save SaveFunc, onError ErrorSink) ISaveScheduler {
	// a zero-window debounce is just an immediate save
	if policy.Kind == PolicyDebounced && policy.Window <= 0 {
		policy = Immediate()
	}
	return &saveSchedulerImpl{
		policy:  policy,
		save:    save,
		onError: onError,
	}
}

// saveSchedulerImpl implements the ISaveScheduler interface
type saveSchedulerImpl struct {
	policy  Policy
	save    SaveFunc
	onError ErrorSink

	// mu guards the state machine fields below. saveMu serializes save
	// execution so at most one SaveFunc invocation runs at any time; it
	// is never acquired while holding mu.
	mu     sync.Mutex
	saveMu sync.Mutex

	state    State
	pending  bool // a mutation arrived while a save was in flight
	closed   bool
	timer    *time.Timer
	timerGen uint64 // invalidates stale timer callbacks after a reset
	deadline time.Time
}

// --------------------------------------------------------------------------
// Interface Methods (docu see scheduler.ISaveScheduler)
// --------------------------------------------------------------------------

func (s *saveSchedulerImpl) Mutated() error {
	s.mu.Lock()

	if s.closed || s.policy.Kind == PolicyDisabled {
		s.mu.Unlock()
		return nil
	}

	// a save is running right now: remember that the snapshot it took is
	// already stale and let it trigger exactly one follow-up
	if s.state == StateSaving {
		s.pending = true
		s.mu.Unlock()
		return nil
	}

	if s.policy.Kind == PolicyDebounced {
		s.armLocked()
		s.mu.Unlock()
		return nil
	}

	// PolicyImmediate: save before returning to the caller
	s.state = StateSaving
	s.mu.Unlock()
	return s.executeSave()
}

func (s *saveSchedulerImpl) Flush() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.cancelTimerLocked()
	s.state = StateSaving
	s.mu.Unlock()

	return s.executeSave()
}

func (s *saveSchedulerImpl) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelTimerLocked()
	s.pending = false
	if s.state == StateArmed {
		s.state = StateIdle
	}
}

func (s *saveSchedulerImpl) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *saveSchedulerImpl) Deadline() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateArmed {
		return time.Time{}, false
	}
	return s.deadline, true
}

func (s *saveSchedulerImpl) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.cancelTimerLocked()
	s.pending = false
	if s.state == StateArmed {
		s.state = StateIdle
	}
	s.mu.Unlock()

	// wait for an in-flight save to drain
	s.saveMu.Lock()
	s.saveMu.Unlock()
	return nil
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// armLocked starts or resets the debounce timer. The caller must hold mu.
// Bumping timerGen makes a concurrently firing timer callback a no-op, so
// a reset can never lose against its own stale timer.
func (s *saveSchedulerImpl) armLocked() {
	s.timerGen++
	gen := s.timerGen

	if s.timer != nil {
		s.timer.Stop()
	}
	s.deadline = time.Now().Add(s.policy.Window)
	s.timer = time.AfterFunc(s.policy.Window, func() {
		s.timerFired(gen)
	})
	s.state = StateArmed
}

// cancelTimerLocked invalidates and stops the timer. The caller must hold mu.
func (s *saveSchedulerImpl) cancelTimerLocked() {
	s.timerGen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// timerFired is the AfterFunc callback. gen identifies the timer arming
// that scheduled it; if the generation moved on the callback is stale.
func (s *saveSchedulerImpl) timerFired(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.timerGen || s.state != StateArmed {
		s.mu.Unlock()
		return
	}
	s.state = StateSaving
	s.mu.Unlock()

	if err := s.executeSave(); err != nil {
		schedLogger.Errorf("scheduled save failed: %v", err)
		if s.onError != nil {
			s.onError(err)
		}
	}
}

// executeSave runs the save function under saveMu until no follow-up is
// pending. The caller must have set the state to StateSaving. Returns the
// first save error; on error the pending follow-up is dropped (no retry).
func (s *saveSchedulerImpl) executeSave() error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	for {
		err := s.save()

		s.mu.Lock()
		if err != nil {
			s.pending = false
			s.state = StateIdle
			s.mu.Unlock()
			return err
		}

		if s.pending {
			s.pending = false
			if s.policy.Kind == PolicyDebounced && !s.closed {
				// coalesce the follow-up into a fresh debounce window
				s.armLocked()
				s.mu.Unlock()
				return nil
			}
			// immediate (or closing): run the follow-up save now
			s.mu.Unlock()
			continue
		}

		s.state = StateIdle
		s.mu.Unlock()
		return nil
	}
}
