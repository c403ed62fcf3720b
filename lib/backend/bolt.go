package backend

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ValentinKolb/pKV/lib/serializer"
	"github.com/ValentinKolb/pKV/lib/value"
	bolt "go.etcd.io/bbolt"
)

const (
	// boltBucket is the bucket that holds the snapshot inside the db file
	boltBucket = "pkv"
	// boltSnapshotKey is the key the snapshot blob is stored under
	boltSnapshotKey = "snapshot"
)

// NewBoltBackend creates a backend that persists snapshots inside a BoltDB
// file at the given path. The database is opened per operation and closed
// again, so no file handle is held between saves. Bolt's write transactions
// make Write atomic without a temp-file dance.
func NewBoltBackend(path string, s serializer.ISnapshotSerializer) IBackend {
	return &boltBackendImpl{
		path:       path,
		serializer: s,
	}
}

// boltBackendImpl implements the IBackend interface on top of BoltDB
type boltBackendImpl struct {
	path       string
	serializer serializer.ISnapshotSerializer
}

// --------------------------------------------------------------------------
// Interface Methods (docu see backend.IBackend)
// --------------------------------------------------------------------------

func (b *boltBackendImpl) Read() (value.Mapping, error) {
	// bolt.Open creates the file, so check for existence first to keep
	// Read side-effect free
	if _, err := os.Stat(b.path); err != nil {
		if os.IsNotExist(err) {
			return nil, NewError(RetCNotFound, fmt.Sprintf("no snapshot at %s", b.path), err)
		}
		return nil, NewError(RetCIOError, fmt.Sprintf("failed to stat %s", b.path), err)
	}

	db, err := bolt.Open(b.path, 0o600, nil)
	if err != nil {
		return nil, NewError(RetCIOError, fmt.Sprintf("failed to open %s", b.path), err)
	}
	defer db.Close()

	var data []byte
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucket))
		if bucket == nil {
			return nil
		}
		if raw := bucket.Get([]byte(boltSnapshotKey)); raw != nil {
			data = make([]byte, len(raw))
			copy(data, raw)
		}
		return nil
	})
	if err != nil {
		return nil, NewError(RetCIOError, fmt.Sprintf("failed to read %s", b.path), err)
	}

	if data == nil {
		return nil, NewError(RetCNotFound, fmt.Sprintf("no snapshot in %s", b.path), nil)
	}

	snapshot, err := b.serializer.Deserialize(data)
	if err != nil {
		return nil, NewError(RetCCorrupt, fmt.Sprintf("failed to decode snapshot in %s", b.path), err)
	}

	return snapshot, nil
}

func (b *boltBackendImpl) Write(snapshot value.Mapping) error {
	data, err := b.serializer.Serialize(snapshot)
	if err != nil {
		return NewError(RetCIOError, "failed to encode snapshot", err)
	}

	if err := os.MkdirAll(filepath.Dir(b.path), 0o755); err != nil {
		return NewError(RetCIOError, fmt.Sprintf("failed to create directory %s", filepath.Dir(b.path)), err)
	}

	db, err := bolt.Open(b.path, 0o600, nil)
	if err != nil {
		return NewError(RetCIOError, fmt.Sprintf("failed to open %s", b.path), err)
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(boltSnapshotKey), data)
	})
	if err != nil {
		return NewError(RetCIOError, fmt.Sprintf("failed to write %s", b.path), err)
	}

	return nil
}

func (b *boltBackendImpl) Location() string {
	return b.path
}
