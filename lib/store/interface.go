package store

import (
	"context"
	"time"

	"github.com/ValentinKolb/pKV/lib/backend"
	"github.com/ValentinKolb/pKV/lib/scheduler"
	"github.com/ValentinKolb/pKV/lib/serializer"
	"github.com/ValentinKolb/pKV/lib/value"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the interface for a process-local persistent key-value store.
// All reads are served from memory and never touch disk. Mutations update
// memory synchronously and reach disk according to the store's auto-save
// policy; the in-memory mapping always reflects the most recent mutation,
// regardless of what has been persisted so far.
type IStore interface {
	// Get returns a deep copy of the value for a key. The boolean return
	// value indicates whether the key was found
	Get(key string) (v value.Value, loaded bool)
	// Set inserts or updates a key-value pair. The value is cloned, so
	// mutating it afterwards does not affect the store
	Set(key string, v value.Value)
	// Has returns whether a key exists in the store
	Has(key string) (loaded bool)
	// Keys returns all keys in sorted order
	Keys() (keys []string)
	// Len returns the number of entries
	Len() (count int)
	// Delete removes a key-value pair. It returns whether the key existed;
	// deleting an absent key is a no-op and schedules no save
	Delete(key string) (existed bool)
	// Clear removes all entries. It returns whether anything was removed;
	// clearing an empty store is a no-op and schedules no save
	Clear() (changed bool)
	// Reset replaces the mapping with the configured defaults. It returns
	// whether the mapping changed; resetting a store that already equals
	// its defaults is a no-op and schedules no save
	Reset() (changed bool)
	// Dirty returns whether the in-memory mapping differs from the last
	// successfully persisted snapshot
	Dirty() (dirty bool)
	// Save persists the current mapping immediately, bypassing any debounce
	// window. On failure the error is returned and the store stays dirty
	Save() (err error)
	// Load replaces the in-memory mapping with the persisted snapshot.
	// If no snapshot exists, the mapping is left unchanged and a
	// backend.Error with code RetCNotFound is returned
	Load() (err error)
	// Identifier returns the store's registry identifier
	Identifier() (id string)
	// Path returns where the store persists its data
	Path() (path string)
	// Policy returns the store's auto-save policy
	Policy() (policy scheduler.Policy)
	// Close cancels any armed save timer and, if the store is dirty, runs
	// a final save bounded by ctx. If ctx expires first, Close returns
	// ctx.Err() while the write finishes in the background. The store
	// must not be used afterwards
	Close(ctx context.Context) (err error)
}

// --------------------------------------------------------------------------
// Store Options
// --------------------------------------------------------------------------

// Options configures a store created with NewStore.
type Options struct {
	// Path is where the store persists its data. Only used when Backend
	// is nil; ignored otherwise.
	Path string

	// Defaults is the mapping a fresh store starts with and the target of
	// Reset. A nil value means empty defaults.
	Defaults value.Mapping

	// AutoSave is the save policy. The zero value is scheduler.Disabled().
	AutoSave scheduler.Policy

	// Serializer encodes snapshots when Backend is nil. Defaults to JSON.
	Serializer serializer.ISnapshotSerializer

	// Backend overrides the default file backend built from Path and
	// Serializer.
	Backend backend.IBackend

	// OnSaveError receives errors from saves that run without a caller
	// (debounce timer fired, immediate save triggered by Set). May be nil.
	OnSaveError func(err error)
}

// DefaultOptions returns the options used by most callers: a JSON file
// backend at the given path and saves debounced by 100ms.
func DefaultOptions(path string) Options {
	return Options{
		Path:       path,
		AutoSave:   scheduler.Debounced(100 * time.Millisecond),
		Serializer: serializer.NewJSONSerializer(),
	}
}
