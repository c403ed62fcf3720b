package serializer

import "github.com/ValentinKolb/pKV/lib/value"

// ISnapshotSerializer is the interface for all snapshot serializers.
// A snapshot is the full mapping of a store at a point in time; backends
// use a serializer to convert it to and from a byte stream.
type ISnapshotSerializer interface {
	// Serialize serializes a mapping snapshot into a byte array.
	// It returns the serialized byte array and an error if any
	Serialize(snapshot value.Mapping) ([]byte, error)
	// Deserialize deserializes a byte array into a mapping snapshot.
	// It returns an error if the data is malformed
	Deserialize(b []byte) (value.Mapping, error)
	// Name returns the short name of the format (e.g. "json").
	// It is also used as the file extension for file-based backends
	Name() string
}
