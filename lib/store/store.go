package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/pKV/lib/backend"
	"github.com/ValentinKolb/pKV/lib/scheduler"
	"github.com/ValentinKolb/pKV/lib/serializer"
	"github.com/ValentinKolb/pKV/lib/value"
	"github.com/lni/dragonboat/v4/logger"
)

var storeLogger = logger.GetLogger("store")

// storeImpl implements the IStore interface
type storeImpl struct {
	id       string
	defaults value.Mapping
	policy   scheduler.Policy
	backend  backend.IBackend
	sched    scheduler.ISaveScheduler
	onError  func(error)
	metrics  *storeMetrics

	// mu guards mapping, dirty and mutGen. Critical sections cover only
	// the map update; disk I/O always runs outside this lock.
	mu      sync.RWMutex
	mapping value.Mapping
	dirty   bool
	mutGen  uint64 // bumped on every observable mutation

	// ioMu serializes backend access for this store
	ioMu sync.Mutex

	closed atomic.Bool
}

// NewStore creates a new store and loads its persisted snapshot. A missing
// snapshot is not an error: the store starts from opts.Defaults. Corrupt or
// unreadable snapshots abort creation.
func NewStore(id string, opts Options) (IStore, error) {
	if opts.Backend == nil {
		if opts.Path == "" {
			return nil, fmt.Errorf("store %q: either Path or Backend must be set", id)
		}
		ser := opts.Serializer
		if ser == nil {
			ser = serializer.NewJSONSerializer()
		}
		opts.Backend = backend.NewFileBackend(opts.Path, ser)
	}

	s := &storeImpl{
		id:       id,
		defaults: opts.Defaults.Clone(),
		policy:   opts.AutoSave,
		backend:  opts.Backend,
		onError:  opts.OnSaveError,
		metrics:  newStoreMetrics(id),
	}
	s.mapping = s.defaults.Clone()
	s.sched = scheduler.NewSaveScheduler(opts.AutoSave, s.persist, s.reportSaveError)

	if err := s.Load(); err != nil && !backend.IsNotFound(err) {
		s.sched.Close()
		return nil, fmt.Errorf("store %q: failed to load snapshot: %w", id, err)
	}

	storeLogger.Infof("opened store %q at %s (policy %s)", id, s.backend.Location(), s.policy)
	return s, nil
}

// --------------------------------------------------------------------------
// Interface Methods - Reads (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Get(key string) (value.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.mapping[key]
	if !ok {
		return value.Null(), false
	}
	return v.Clone(), true
}

func (s *storeImpl) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.mapping[key]
	return ok
}

func (s *storeImpl) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.mapping))
	for k := range s.mapping {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

func (s *storeImpl) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.mapping)
}

func (s *storeImpl) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

func (s *storeImpl) Identifier() string {
	return s.id
}

func (s *storeImpl) Path() string {
	return s.backend.Location()
}

func (s *storeImpl) Policy() scheduler.Policy {
	return s.policy
}

// --------------------------------------------------------------------------
// Interface Methods - Mutations (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key string, v value.Value) {
	s.mutate(func(m value.Mapping) bool {
		m[key] = v.Clone()
		return true
	})
}

func (s *storeImpl) Delete(key string) bool {
	return s.mutate(func(m value.Mapping) bool {
		if _, ok := m[key]; !ok {
			return false
		}
		delete(m, key)
		return true
	})
}

func (s *storeImpl) Clear() bool {
	changed := false
	s.mu.Lock()
	if len(s.mapping) > 0 {
		s.mapping = value.Mapping{}
		s.markDirtyLocked()
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.signalMutation()
	}
	return changed
}

func (s *storeImpl) Reset() bool {
	changed := false
	s.mu.Lock()
	if !s.mapping.Equal(s.defaults) {
		s.mapping = s.defaults.Clone()
		s.markDirtyLocked()
		changed = true
	}
	s.mu.Unlock()

	if changed {
		s.signalMutation()
	}
	return changed
}

// --------------------------------------------------------------------------
// Interface Methods - Persistence (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Save() error {
	if s.closed.Load() {
		return fmt.Errorf("store %q is closed", s.id)
	}
	return s.sched.Flush()
}

func (s *storeImpl) Load() error {
	if s.closed.Load() {
		return fmt.Errorf("store %q is closed", s.id)
	}

	s.ioMu.Lock()
	snapshot, err := s.backend.Read()
	s.ioMu.Unlock()
	if err != nil {
		return err
	}
	s.metrics.loads.Inc()

	s.mu.Lock()
	s.mapping = snapshot
	s.dirty = false
	// invalidate the generation a racing save captured so it cannot
	// clear dirty for a snapshot that no longer matches memory
	s.mutGen++
	s.mu.Unlock()
	return nil
}

func (s *storeImpl) Close(ctx context.Context) error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	s.mu.RLock()
	dirty := s.dirty
	s.mu.RUnlock()

	if !dirty {
		return s.sched.Close()
	}

	// final flush, bounded by the caller's context. If the context
	// expires the write keeps running in the background.
	done := make(chan error, 1)
	go func() {
		err := s.sched.Flush()
		s.sched.Close()
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		storeLogger.Warningf("store %q: close abandoned waiting for final save: %v", s.id, ctx.Err())
		return ctx.Err()
	}
}

// --------------------------------------------------------------------------
// Internal Helpers
// --------------------------------------------------------------------------

// mutate applies fn to the mapping under the write lock. If fn reports an
// observable change, the store is marked dirty and the scheduler notified.
func (s *storeImpl) mutate(fn func(m value.Mapping) bool) bool {
	if s.closed.Load() {
		return false
	}

	s.mu.Lock()
	changed := fn(s.mapping)
	if changed {
		s.markDirtyLocked()
	}
	s.mu.Unlock()

	if changed {
		s.signalMutation()
	}
	return changed
}

// markDirtyLocked records an observable mutation. The caller must hold mu.
func (s *storeImpl) markDirtyLocked() {
	s.dirty = true
	s.mutGen++
}

// signalMutation emits exactly one mutated signal to the scheduler. Under
// the immediate policy the save runs inside this call; its error has no
// caller to go to and is routed to the error sink.
func (s *storeImpl) signalMutation() {
	s.metrics.mutations.Inc()
	if err := s.sched.Mutated(); err != nil {
		s.reportSaveError(err)
	}
}

// persist is the scheduler's SaveFunc. It snapshots the mapping under the
// read lock and writes outside of it, so mutations are never blocked by
// disk I/O. Dirty is only cleared when no mutation happened after the
// snapshot was taken.
func (s *storeImpl) persist() error {
	s.ioMu.Lock()
	defer s.ioMu.Unlock()

	s.mu.RLock()
	snapshot := s.mapping.Clone()
	gen := s.mutGen
	s.mu.RUnlock()

	start := time.Now()
	err := s.backend.Write(snapshot)
	s.metrics.saveDuration.UpdateDuration(start)
	if err != nil {
		s.metrics.saveErrors.Inc()
		return err
	}
	s.metrics.saves.Inc()

	s.mu.Lock()
	if s.mutGen == gen {
		s.dirty = false
	}
	s.mu.Unlock()
	return nil
}

// reportSaveError is the scheduler's error sink for saves without a caller.
func (s *storeImpl) reportSaveError(err error) {
	storeLogger.Errorf("store %q: save failed: %v", s.id, err)
	if s.onError != nil {
		s.onError(err)
	}
}
