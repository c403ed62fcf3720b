package value

import (
	"encoding/json"
	"testing"
)

// testMapping builds a mapping exercising every variant, including nesting.
func testMapping() Mapping {
	return Mapping{
		"null":   Null(),
		"bool":   Bool(true),
		"number": Number(42.5),
		"string": String("hello"),
		"list":   List(Number(1), String("two"), Bool(false)),
		"nested": Map(Mapping{
			"inner": List(Map(Mapping{"deep": String("value")})),
		}),
	}
}

func TestConstructorsAndAccessors(t *testing.T) {
	if !Null().IsNull() {
		t.Errorf("Null() should be null")
	}

	if b, ok := Bool(true).AsBool(); !ok || !b {
		t.Errorf("Expected AsBool to return (true, true), got (%v, %v)", b, ok)
	}

	if n, ok := Number(3.5).AsNumber(); !ok || n != 3.5 {
		t.Errorf("Expected AsNumber to return (3.5, true), got (%v, %v)", n, ok)
	}

	if s, ok := String("x").AsString(); !ok || s != "x" {
		t.Errorf("Expected AsString to return (x, true), got (%v, %v)", s, ok)
	}

	if _, ok := String("x").AsNumber(); ok {
		t.Errorf("AsNumber on a string should report false")
	}

	list, ok := List(Number(1), Number(2)).AsList()
	if !ok || len(list) != 2 {
		t.Errorf("Expected AsList to return two items, got (%v, %v)", list, ok)
	}

	m, ok := Map(Mapping{"k": String("v")}).AsMapping()
	if !ok || len(m) != 1 {
		t.Errorf("Expected AsMapping to return one entry, got (%v, %v)", m, ok)
	}

	// the zero Value must behave as null
	var zero Value
	if !zero.IsNull() {
		t.Errorf("Zero Value should be null")
	}
}

func TestCloneIsolation(t *testing.T) {
	original := Map(Mapping{
		"list": List(Number(1)),
		"map":  Map(Mapping{"k": String("v")}),
	})

	clone := original.Clone()

	// mutate the clone's composites
	cloneMap, _ := clone.AsMapping()
	innerList, _ := cloneMap["list"].AsList()
	innerList[0] = Number(99)
	innerMap, _ := cloneMap["map"].AsMapping()
	innerMap["k"] = String("changed")
	cloneMap["extra"] = Bool(true)

	// the original must be untouched
	origMap, _ := original.AsMapping()
	if _, exists := origMap["extra"]; exists {
		t.Errorf("Clone mutation leaked a new key into the original")
	}
	origList, _ := origMap["list"].AsList()
	if n, _ := origList[0].AsNumber(); n != 1 {
		t.Errorf("Clone mutation leaked into the original list: got %v", n)
	}
	origInner, _ := origMap["map"].AsMapping()
	if s, _ := origInner["k"].AsString(); s != "v" {
		t.Errorf("Clone mutation leaked into the original mapping: got %q", s)
	}
}

func TestEqual(t *testing.T) {
	a := testMapping()
	b := testMapping()

	if !a.Equal(b) {
		t.Errorf("Identically built mappings should be equal")
	}

	b["number"] = Number(43)
	if a.Equal(b) {
		t.Errorf("Mappings with different values should not be equal")
	}

	c := testMapping()
	delete(c, "null")
	if a.Equal(c) {
		t.Errorf("Mappings with different key sets should not be equal")
	}

	if Bool(true).Equal(Number(1)) {
		t.Errorf("Values of different kinds should not be equal")
	}

	if !List().Equal(List()) {
		t.Errorf("Empty lists should be equal")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	original := testMapping()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("Failed to marshal mapping: %v", err)
	}

	var restored Mapping
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Failed to unmarshal mapping: %v", err)
	}

	if !original.Equal(restored) {
		t.Errorf("Mapping doesn't match after JSON round trip:\nOriginal: %s\nRestored: %s",
			Map(original), Map(restored))
	}
}

func TestFromAny(t *testing.T) {
	raw := map[string]any{
		"s":    "str",
		"n":    1.5,
		"b":    false,
		"nil":  nil,
		"list": []any{"a", 2.0, map[string]any{"x": true}},
	}

	v, err := FromAny(raw)
	if err != nil {
		t.Fatalf("Unexpected error from FromAny: %v", err)
	}

	m, ok := v.AsMapping()
	if !ok {
		t.Fatalf("Expected a mapping, got kind %s", v.Kind())
	}

	if s, _ := m["s"].AsString(); s != "str" {
		t.Errorf("Expected string payload %q, got %q", "str", s)
	}
	if !m["nil"].IsNull() {
		t.Errorf("Expected nil to convert to null")
	}
	list, _ := m["list"].AsList()
	if len(list) != 3 {
		t.Fatalf("Expected 3 list items, got %d", len(list))
	}
	inner, ok := list[2].AsMapping()
	if !ok {
		t.Fatalf("Expected nested mapping in list")
	}
	if b, _ := inner["x"].AsBool(); !b {
		t.Errorf("Expected nested bool true")
	}

	if _, err := FromAny(struct{}{}); err == nil {
		t.Errorf("Expected error for unsupported type")
	}
}

func TestMappingKeys(t *testing.T) {
	m := Mapping{"b": Null(), "a": Null(), "c": Null()}
	keys := m.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Expected sorted keys [a b c], got %v", keys)
	}
}
