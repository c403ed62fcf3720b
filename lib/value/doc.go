// Package value defines the dynamically typed value model used by pKV
// stores. A Value is a tagged union over the JSON data model: null, bool,
// number, string, list, and string-keyed mapping, recursively. A Mapping
// (key -> Value) is the unit that stores hold in memory and that
// persistence backends serialize as a snapshot.
//
// Key Features:
//   - Schema-free storage of arbitrary JSON-like content
//   - Deep Clone for snapshot isolation between callers and stores
//   - Structural Equal for change detection (e.g. no-op reset suppression)
//   - Lossless JSON round trips via custom Marshal/Unmarshal
//
// Implementation Details:
//
//   - Numbers are stored as float64, matching the JSON data model. Integers
//     that fit a float64 round trip exactly; non-finite values are rejected
//     by the JSON encoder.
//
//   - Clone only copies composite variants (lists and mappings). Scalars
//     share no state and are returned as-is, so cloning a mostly-scalar
//     mapping is cheap.
//
//   - The zero Value is null, which makes Value safe to use as a map value
//     without explicit initialization.
package value
