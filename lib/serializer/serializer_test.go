package serializer

import (
	"testing"

	"github.com/ValentinKolb/pKV/lib/value"
)

// testSerializers is a map of serializer name to factory function
var testSerializers = map[string]func() ISnapshotSerializer{
	"JSON": NewJSONSerializer,
	"GOB":  NewGobSerializer,
}

// testSnapshots creates a set of test snapshots with different shapes
func testSnapshots() []value.Mapping {
	return []value.Mapping{
		// Empty snapshot
		{},

		// Flat scalars
		{
			"null":   value.Null(),
			"bool":   value.Bool(true),
			"number": value.Number(-12.25),
			"string": value.String("hello world"),
		},

		// Nested composites
		{
			"list": value.List(
				value.Number(1),
				value.String("two"),
				value.List(value.Bool(false)),
			),
			"map": value.Map(value.Mapping{
				"inner": value.Map(value.Mapping{
					"deep": value.List(value.Null(), value.Number(0)),
				}),
			}),
		},

		// Keys that need escaping in text formats
		{
			"with \"quotes\"": value.String("line\nbreak\tand unicode: äöü ✓"),
			"":                value.String("empty key"),
		},
	}
}

// TestSerializerRoundTrip tests that snapshots can be serialized and deserialized correctly
func TestSerializerRoundTrip(t *testing.T) {
	snapshots := testSnapshots()

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for i, snapshot := range snapshots {
				// Serialize
				data, err := serializer.Serialize(snapshot)
				if err != nil {
					t.Errorf("Failed to serialize snapshot %d: %v", i, err)
					continue
				}

				// Deserialize
				result, err := serializer.Deserialize(data)
				if err != nil {
					t.Errorf("Failed to deserialize snapshot %d: %v", i, err)
					continue
				}

				// Compare
				if !snapshot.Equal(result) {
					t.Errorf("Snapshot %d doesn't match after round trip:\nOriginal: %s\nResult: %s",
						i, value.Map(snapshot), value.Map(result))
				}
			}
		})
	}
}

// TestNilSnapshot tests that a nil snapshot serializes to an empty mapping
func TestNilSnapshot(t *testing.T) {
	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			data, err := serializer.Serialize(nil)
			if err != nil {
				t.Fatalf("Failed to serialize nil snapshot: %v", err)
			}

			result, err := serializer.Deserialize(data)
			if err != nil {
				t.Fatalf("Failed to deserialize: %v", err)
			}

			if result == nil {
				t.Errorf("Expected non-nil mapping after round trip")
			}
			if len(result) != 0 {
				t.Errorf("Expected empty mapping, got %d entries", len(result))
			}
		})
	}
}

// TestInvalidData tests how serializers handle corrupt input
func TestInvalidData(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "Empty data", data: []byte{}},
		{name: "Garbage bytes", data: []byte{0xff, 0x00, 0x42, 0x13, 0x37}},
		{name: "Truncated data", data: []byte("{\"key\": \"val")},
	}

	for name, factory := range testSerializers {
		t.Run(name, func(t *testing.T) {
			serializer := factory()

			for _, tc := range testCases {
				if _, err := serializer.Deserialize(tc.data); err == nil {
					t.Errorf("%s: expected error but got none", tc.name)
				}
			}
		})
	}
}

// TestName tests the format names used as file extensions
func TestName(t *testing.T) {
	if name := NewJSONSerializer().Name(); name != "json" {
		t.Errorf("Expected name 'json', got '%s'", name)
	}
	if name := NewGobSerializer().Name(); name != "gob" {
		t.Errorf("Expected name 'gob', got '%s'", name)
	}
}
