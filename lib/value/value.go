package value

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
)

// --------------------------------------------------------------------------
// Kind Type
// --------------------------------------------------------------------------

// Kind identifies the variant stored in a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindNumber:
		return "Number"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMapping:
		return "Mapping"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Value Type (tagged union)
// --------------------------------------------------------------------------

// Value is a dynamically typed, JSON-like value: one of null, bool, number,
// string, list of Value, or string-keyed Mapping of Value (recursively).
// The zero Value is the null value. Values are compared structurally with
// Equal and deep-copied with Clone.
type Value struct {
	kind    Kind
	boolVal bool
	numVal  float64
	strVal  string
	listVal []Value
	mapVal  Mapping
}

// --------------------------------------------------------------------------
// Constructors
// --------------------------------------------------------------------------

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// Number returns a numeric value.
func Number(n float64) Value {
	return Value{kind: KindNumber, numVal: n}
}

// String returns a string value.
func String(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// List returns a list value holding the given items.
// The items are not copied; use Clone if the caller retains them.
func List(items ...Value) Value {
	return Value{kind: KindList, listVal: items}
}

// Map returns a mapping value wrapping m.
// The mapping is not copied; use Clone if the caller retains it.
func Map(m Mapping) Value {
	if m == nil {
		m = Mapping{}
	}
	return Value{kind: KindMapping, mapVal: m}
}

// FromAny converts a decoded JSON value (as produced by encoding/json into
// an interface{}) into a Value. Supported inputs: nil, bool, float64,
// string, []any and map[string]any plus the native Value/Mapping types.
func FromAny(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, item := range t {
			converted, err := FromAny(item)
			if err != nil {
				return Null(), err
			}
			items[i] = converted
		}
		return List(items...), nil
	case map[string]any:
		m := make(Mapping, len(t))
		for k, item := range t {
			converted, err := FromAny(item)
			if err != nil {
				return Null(), err
			}
			m[k] = converted
		}
		return Map(m), nil
	case Value:
		return t, nil
	case Mapping:
		return Map(t), nil
	default:
		return Null(), fmt.Errorf("unsupported value type %T", v)
	}
}

// --------------------------------------------------------------------------
// Accessors
// --------------------------------------------------------------------------

// Kind returns the variant stored in the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns whether the value is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// AsBool returns the boolean payload. The second return value indicates
// whether the value actually is a boolean.
func (v Value) AsBool() (bool, bool) {
	return v.boolVal, v.kind == KindBool
}

// AsNumber returns the numeric payload. The second return value indicates
// whether the value actually is a number.
func (v Value) AsNumber() (float64, bool) {
	return v.numVal, v.kind == KindNumber
}

// AsString returns the string payload. The second return value indicates
// whether the value actually is a string.
func (v Value) AsString() (string, bool) {
	return v.strVal, v.kind == KindString
}

// AsList returns the list payload (not a copy). The second return value
// indicates whether the value actually is a list.
func (v Value) AsList() ([]Value, bool) {
	return v.listVal, v.kind == KindList
}

// AsMapping returns the mapping payload (not a copy). The second return
// value indicates whether the value actually is a mapping.
func (v Value) AsMapping() (Mapping, bool) {
	return v.mapVal, v.kind == KindMapping
}

// --------------------------------------------------------------------------
// Clone and Equal
// --------------------------------------------------------------------------

// Clone returns a deep copy of the value. Mutating the copy (or any list or
// mapping reachable from it) never affects the original.
func (v Value) Clone() Value {
	switch v.kind {
	case KindList:
		items := make([]Value, len(v.listVal))
		for i, item := range v.listVal {
			items[i] = item.Clone()
		}
		return Value{kind: KindList, listVal: items}
	case KindMapping:
		return Value{kind: KindMapping, mapVal: v.mapVal.Clone()}
	default:
		// scalar variants carry no shared state
		return v
	}
}

// Equal reports whether two values are structurally equal. Numbers compare
// by value (NaN equals NaN so that stored values roundtrip), lists compare
// element-wise in order, mappings compare key-wise.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.boolVal == other.boolVal
	case KindNumber:
		if math.IsNaN(v.numVal) && math.IsNaN(other.numVal) {
			return true
		}
		return v.numVal == other.numVal
	case KindString:
		return v.strVal == other.strVal
	case KindList:
		if len(v.listVal) != len(other.listVal) {
			return false
		}
		for i := range v.listVal {
			if !v.listVal[i].Equal(other.listVal[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		return v.mapVal.Equal(other.mapVal)
	default:
		return false
	}
}

// String returns a compact textual representation for logging and debugging.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.boolVal)
	case KindNumber:
		return fmt.Sprintf("%v", v.numVal)
	case KindString:
		return fmt.Sprintf("%q", v.strVal)
	case KindList:
		parts := make([]string, len(v.listVal))
		for i, item := range v.listVal {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		keys := make([]string, 0, len(v.mapVal))
		for k := range v.mapVal {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, v.mapVal[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

// --------------------------------------------------------------------------
// JSON Encoding
// --------------------------------------------------------------------------

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.boolVal)
	case KindNumber:
		if math.IsNaN(v.numVal) || math.IsInf(v.numVal, 0) {
			return nil, fmt.Errorf("cannot encode non-finite number %v as JSON", v.numVal)
		}
		return json.Marshal(v.numVal)
	case KindString:
		return json.Marshal(v.strVal)
	case KindList:
		if v.listVal == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.listVal)
	case KindMapping:
		if v.mapVal == nil {
			return []byte("{}"), nil
		}
		return json.Marshal(v.mapVal)
	default:
		return nil, fmt.Errorf("cannot encode value of kind %s", v.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// --------------------------------------------------------------------------
// Mapping Type
// --------------------------------------------------------------------------

// Mapping is a string-keyed collection of values. It is the snapshot unit
// handed to persistence backends.
type Mapping map[string]Value

// Clone returns a deep copy of the mapping. A nil mapping clones to an
// empty (non-nil) one.
func (m Mapping) Clone() Mapping {
	clone := make(Mapping, len(m))
	for k, v := range m {
		clone[k] = v.Clone()
	}
	return clone
}

// Equal reports whether two mappings hold structurally equal values under
// the same keys.
func (m Mapping) Equal(other Mapping) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		o, ok := other[k]
		if !ok || !v.Equal(o) {
			return false
		}
	}
	return true
}

// Keys returns the mapping's keys in sorted order.
func (m Mapping) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
