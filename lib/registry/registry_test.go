package registry

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ValentinKolb/pKV/lib/scheduler"
	"github.com/ValentinKolb/pKV/lib/store"
	"github.com/ValentinKolb/pKV/lib/value"
)

// testOptions returns options for a disabled-autosave store in dir
func testOptions(t *testing.T, dir, id string) store.Options {
	t.Helper()
	opts := store.DefaultOptions(filepath.Join(dir, id+".json"))
	opts.AutoSave = scheduler.Disabled()
	return opts
}

func TestGetOrCreateReturnsSameInstance(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()
	defer r.Shutdown(context.Background())

	first, err := r.GetOrCreate("settings", testOptions(t, dir, "settings"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	// the second caller asks with different options; they must be ignored
	otherOpts := store.DefaultOptions(filepath.Join(dir, "other.json"))
	otherOpts.Defaults = value.Mapping{"x": value.Number(1)}
	second, err := r.GetOrCreate("settings", otherOpts)
	if err != nil {
		t.Fatalf("Failed to get store: %v", err)
	}

	if first != second {
		t.Errorf("Expected both callers to receive the same store instance")
	}
	if second.Path() != first.Path() {
		t.Errorf("Expected the first caller's configuration to win")
	}
	if second.Has("x") {
		t.Errorf("Expected the second caller's defaults to be ignored")
	}
}

func TestConcurrentGetOrCreate(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()
	defer r.Shutdown(context.Background())

	const goroutines = 16
	stores := make([]store.IStore, goroutines)
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.GetOrCreate("shared", testOptions(t, dir, "shared"))
			if err != nil {
				t.Errorf("Failed to get or create store: %v", err)
				return
			}
			stores[i] = s
		}(i)
	}
	wg.Wait()

	for i := 1; i < goroutines; i++ {
		if stores[i] != stores[0] {
			t.Fatalf("Goroutine %d received a different store instance", i)
		}
	}
	if n := r.Len(); n != 1 {
		t.Errorf("Expected 1 registered store, got %d", n)
	}
}

func TestCreateFailureLeavesNoEntry(t *testing.T) {
	r := NewRegistry()

	// neither Path nor Backend set, so construction fails
	if _, err := r.GetOrCreate("broken", store.Options{}); err == nil {
		t.Fatalf("Expected store creation to fail")
	}

	if _, ok := r.Get("broken"); ok {
		t.Errorf("Expected no registry entry after a failed creation")
	}
	if n := r.Len(); n != 0 {
		t.Errorf("Expected empty registry, got %d entries", n)
	}
}

func TestRemoveDetachesStore(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()

	s, err := r.GetOrCreate("settings", testOptions(t, dir, "settings"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	removed, ok := r.Remove("settings")
	if !ok || removed != s {
		t.Fatalf("Expected Remove to return the registered store")
	}
	if _, ok := r.Get("settings"); ok {
		t.Errorf("Expected the store to be gone from the registry")
	}
	if _, ok := r.Remove("settings"); ok {
		t.Errorf("Expected removing twice to report false")
	}

	// the detached handle still works and is owned by the caller
	removed.Set("k", value.Number(1))
	if err := removed.Close(context.Background()); err != nil {
		t.Errorf("Unexpected error closing the detached store: %v", err)
	}
}

func TestShutdownFlushesDirtyStores(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()

	opts := store.DefaultOptions(filepath.Join(dir, "settings.json"))
	opts.AutoSave = scheduler.Debounced(10 * time.Second) // never fires during the test

	s, err := r.GetOrCreate("settings", opts)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	s.Set("theme", value.String("dark"))

	if err := r.Shutdown(context.Background()); err != nil {
		t.Fatalf("Unexpected error from Shutdown: %v", err)
	}
	if n := r.Len(); n != 0 {
		t.Errorf("Expected Shutdown to drain the registry, got %d entries", n)
	}

	// the flushed state is on disk for the next process
	reopened, err := store.NewStore("settings", store.DefaultOptions(filepath.Join(dir, "settings.json")))
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close(context.Background())

	if v, _ := reopened.Get("theme"); !v.Equal(value.String("dark")) {
		t.Errorf("Expected Shutdown to persist the dirty store")
	}
}

func TestIdentifiers(t *testing.T) {
	r := NewRegistry()
	dir := t.TempDir()
	defer r.Shutdown(context.Background())

	for _, id := range []string{"a", "b", "c"} {
		if _, err := r.GetOrCreate(id, testOptions(t, dir, id)); err != nil {
			t.Fatalf("Failed to create store %q: %v", id, err)
		}
	}

	ids := r.Identifiers()
	if len(ids) != 3 {
		t.Errorf("Expected 3 identifiers, got %v", ids)
	}
}
