// Package backend provides snapshot persistence for pKV stores. A backend
// owns one on-disk location and replaces its snapshot wholesale on every
// write; there is no partial update on disk.
//
// Key Features:
//   - Atomic writes: a crash during Write leaves the previous snapshot
//     intact (temp-file rename for files, write transactions for bolt)
//   - Typed errors (NotFound, Corrupt, IOError) so callers can tolerate a
//     missing first snapshot but surface real failures
//   - Format-agnostic: the wire format is delegated to a
//     serializer.ISnapshotSerializer
//
// Two implementations are provided:
//
//   - File (NewFileBackend): one snapshot file per store, directly
//     inspectable on disk. This is the default.
//
//   - Bolt (NewBoltBackend): the snapshot lives inside a BoltDB file. The
//     database is opened and closed per operation, trading latency for the
//     ability to park many stores in one file tree without open handles.
//
// Backends are not concurrency-safe on their own; the store serializes all
// disk access through its save scheduler.
package backend
