package registry

import (
	"context"
	"errors"

	"github.com/ValentinKolb/pKV/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var regLogger = logger.GetLogger("registry")

// Registry maps identifiers to shared store handles. All callers asking for
// the same identifier receive the same store instance; only the first
// caller's options take effect.
type Registry struct {
	stores *xsync.MapOf[string, store.IStore]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		stores: xsync.NewMapOf[string, store.IStore](),
	}
}

// GetOrCreate returns the store registered under id, creating it with opts
// if none exists. When the store already exists, opts is ignored and the
// existing handle is returned. Creation errors (a corrupt or unreadable
// snapshot) leave the registry without an entry for id.
func (r *Registry) GetOrCreate(id string, opts store.Options) (store.IStore, error) {
	var createErr error

	s, _ := r.stores.Compute(id, func(old store.IStore, loaded bool) (store.IStore, bool) {
		if loaded {
			return old, false
		}
		created, err := store.NewStore(id, opts)
		if err != nil {
			createErr = err
			return nil, true // don't register a broken store
		}
		return created, false
	})

	if createErr != nil {
		return nil, createErr
	}
	return s, nil
}

// Get returns the store registered under id, if any.
func (r *Registry) Get(id string) (store.IStore, bool) {
	return r.stores.Load(id)
}

// Remove detaches the store registered under id without closing it. The
// caller owns the returned handle and is responsible for closing it.
func (r *Registry) Remove(id string) (store.IStore, bool) {
	return r.stores.LoadAndDelete(id)
}

// Len returns the number of registered stores.
func (r *Registry) Len() int {
	return r.stores.Size()
}

// Identifiers returns the ids of all registered stores.
func (r *Registry) Identifiers() []string {
	ids := make([]string, 0, r.stores.Size())
	r.stores.Range(func(id string, _ store.IStore) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

// Shutdown closes every registered store, flushing dirty ones bounded by
// ctx, and drains the registry. Errors are collected; one failing store
// does not stop the others from closing.
func (r *Registry) Shutdown(ctx context.Context) error {
	var errs []error

	r.stores.Range(func(id string, s store.IStore) bool {
		if err := s.Close(ctx); err != nil {
			regLogger.Errorf("failed to close store %q: %v", id, err)
			errs = append(errs, err)
		}
		r.stores.Delete(id)
		return true
	})

	return errors.Join(errs...)
}

// --------------------------------------------------------------------------
// Default Registry
// --------------------------------------------------------------------------

// Default is the process-wide registry used by the package-level functions.
var Default = NewRegistry()

// GetOrCreate calls Default.GetOrCreate.
func GetOrCreate(id string, opts store.Options) (store.IStore, error) {
	return Default.GetOrCreate(id, opts)
}

// Get calls Default.Get.
func Get(id string) (store.IStore, bool) {
	return Default.Get(id)
}

// Remove calls Default.Remove.
func Remove(id string) (store.IStore, bool) {
	return Default.Remove(id)
}

// Shutdown calls Default.Shutdown.
func Shutdown(ctx context.Context) error {
	return Default.Shutdown(ctx)
}
