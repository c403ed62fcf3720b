package backend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ValentinKolb/pKV/lib/serializer"
	"github.com/ValentinKolb/pKV/lib/value"
	"github.com/lni/dragonboat/v4/logger"
)

var fileLogger = logger.GetLogger("backend")

// NewFileBackend creates a backend that persists snapshots to a single file
// at the given path, encoded with the given serializer. Writes go through a
// temp file in the same directory followed by a rename, so a crash never
// leaves a half-written snapshot behind.
func NewFileBackend(path string, s serializer.ISnapshotSerializer) IBackend {
	return &fileBackendImpl{
		path:       path,
		serializer: s,
	}
}

// fileBackendImpl implements the IBackend interface on top of a plain file
type fileBackendImpl struct {
	path       string
	serializer serializer.ISnapshotSerializer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see backend.IBackend)
// --------------------------------------------------------------------------

func (f *fileBackendImpl) Read() (value.Mapping, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewError(RetCNotFound, fmt.Sprintf("no snapshot at %s", f.path), err)
		}
		return nil, NewError(RetCIOError, fmt.Sprintf("failed to read %s", f.path), err)
	}

	snapshot, err := f.serializer.Deserialize(data)
	if err != nil {
		return nil, NewError(RetCCorrupt, fmt.Sprintf("failed to decode %s", f.path), err)
	}

	return snapshot, nil
}

func (f *fileBackendImpl) Write(snapshot value.Mapping) error {
	data, err := f.serializer.Serialize(snapshot)
	if err != nil {
		return NewError(RetCIOError, "failed to encode snapshot", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewError(RetCIOError, fmt.Sprintf("failed to create directory %s", dir), err)
	}

	// Write to a temp file in the target directory so the rename below
	// stays on the same filesystem and is atomic
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return NewError(RetCIOError, "failed to create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return NewError(RetCIOError, "failed to write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return NewError(RetCIOError, "failed to sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return NewError(RetCIOError, "failed to close temp file", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return NewError(RetCIOError, fmt.Sprintf("failed to replace %s", f.path), err)
	}

	fileLogger.Debugf("wrote snapshot to %s (%d bytes)", f.path, len(data))
	return nil
}

func (f *fileBackendImpl) Location() string {
	return f.path
}
