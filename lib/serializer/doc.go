// Package serializer provides snapshot serialization for persistence
// backends. A serializer converts a full store mapping to and from a byte
// stream; backends stay format-agnostic and only move bytes.
//
// Two implementations are provided:
//
//   - JSON (NewJSONSerializer): human-readable snapshot files that can be
//     inspected and edited by hand. This is the default format.
//
//   - Gob (NewGobSerializer): compact binary encoding for stores where
//     readability of the on-disk file does not matter.
//
// The serializer's Name() doubles as the file extension used by file-based
// backends, so a store persisted with the JSON serializer lands in
// "<id>.json".
package serializer
