package backend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ValentinKolb/pKV/lib/serializer"
	"github.com/ValentinKolb/pKV/lib/value"
)

// testBackends is a map of backend name to factory function
var testBackends = map[string]func(path string) IBackend{
	"File": func(path string) IBackend {
		return NewFileBackend(path, serializer.NewJSONSerializer())
	},
	"Bolt": func(path string) IBackend {
		return NewBoltBackend(path, serializer.NewJSONSerializer())
	},
}

// testSnapshot builds a snapshot exercising nested values
func testSnapshot() value.Mapping {
	return value.Mapping{
		"name":    value.String("pKV"),
		"version": value.Number(1),
		"tags":    value.List(value.String("kv"), value.String("persistent")),
		"config": value.Map(value.Mapping{
			"enabled": value.Bool(true),
			"note":    value.Null(),
		}),
	}
}

func TestReadMissing(t *testing.T) {
	for name, factory := range testBackends {
		t.Run(name, func(t *testing.T) {
			b := factory(filepath.Join(t.TempDir(), "missing.db"))

			_, err := b.Read()
			if err == nil {
				t.Fatalf("Expected error reading missing snapshot")
			}
			if !IsNotFound(err) {
				t.Errorf("Expected NotFound error, got: %v", err)
			}
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	for name, factory := range testBackends {
		t.Run(name, func(t *testing.T) {
			b := factory(filepath.Join(t.TempDir(), "store.db"))
			original := testSnapshot()

			if err := b.Write(original); err != nil {
				t.Fatalf("Failed to write snapshot: %v", err)
			}

			restored, err := b.Read()
			if err != nil {
				t.Fatalf("Failed to read snapshot: %v", err)
			}

			if !original.Equal(restored) {
				t.Errorf("Snapshot doesn't match after round trip:\nOriginal: %s\nRestored: %s",
					value.Map(original), value.Map(restored))
			}
		})
	}
}

func TestWriteReplacesSnapshot(t *testing.T) {
	for name, factory := range testBackends {
		t.Run(name, func(t *testing.T) {
			b := factory(filepath.Join(t.TempDir(), "store.db"))

			if err := b.Write(value.Mapping{"a": value.Number(1), "b": value.Number(2)}); err != nil {
				t.Fatalf("Failed to write first snapshot: %v", err)
			}
			second := value.Mapping{"a": value.Number(3)}
			if err := b.Write(second); err != nil {
				t.Fatalf("Failed to write second snapshot: %v", err)
			}

			restored, err := b.Read()
			if err != nil {
				t.Fatalf("Failed to read snapshot: %v", err)
			}

			// the second write must replace, not merge
			if !second.Equal(restored) {
				t.Errorf("Expected snapshot %s, got %s", value.Map(second), value.Map(restored))
			}
		})
	}
}

func TestFileBackendCorruptData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	b := NewFileBackend(path, serializer.NewJSONSerializer())
	_, err := b.Read()
	if err == nil {
		t.Fatalf("Expected error reading corrupt snapshot")
	}
	if !IsCorrupt(err) {
		t.Errorf("Expected Corrupt error, got: %v", err)
	}
}

func TestFileBackendCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dirs", "store.json")

	b := NewFileBackend(path, serializer.NewJSONSerializer())
	if err := b.Write(value.Mapping{"k": value.String("v")}); err != nil {
		t.Fatalf("Failed to write into nested directory: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected snapshot file at %s: %v", path, err)
	}
}

func TestFileBackendLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(filepath.Join(dir, "store.json"), serializer.NewJSONSerializer())

	for i := 0; i < 5; i++ {
		if err := b.Write(testSnapshot()); err != nil {
			t.Fatalf("Failed to write snapshot: %v", err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list directory: %v", err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("Expected only the snapshot file, found: %v", names)
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := NewError(RetCNotFound, "test", cause)

	if err.Unwrap() != cause {
		t.Errorf("Expected Unwrap to return the cause")
	}
	if !IsNotFound(err) {
		t.Errorf("Expected IsNotFound to match")
	}
	if IsCorrupt(err) || IsIOError(err) {
		t.Errorf("Error matched the wrong code predicates")
	}
}
