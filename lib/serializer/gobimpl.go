package serializer

import (
	"bytes"
	"encoding/gob"

	"github.com/ValentinKolb/pKV/lib/value"
)

// NewGobSerializer creates a new serializer using gob encoding
func NewGobSerializer() ISnapshotSerializer {
	return &gobSerializerImpl{}
}

// gobSerializerImpl implements the ISnapshotSerializer interface using gob encoding
type gobSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Gob Wire Types
// --------------------------------------------------------------------------

// gob can only encode exported fields, so values are converted into this
// mirror struct before encoding and back after decoding
type gobValue struct {
	Kind value.Kind
	Bool bool
	Num  float64
	Str  string
	List []gobValue
	Map  map[string]gobValue
}

// toGobValue converts a value into its gob wire representation
func toGobValue(v value.Value) gobValue {
	g := gobValue{Kind: v.Kind()}
	switch v.Kind() {
	case value.KindBool:
		g.Bool, _ = v.AsBool()
	case value.KindNumber:
		g.Num, _ = v.AsNumber()
	case value.KindString:
		g.Str, _ = v.AsString()
	case value.KindList:
		list, _ := v.AsList()
		g.List = make([]gobValue, len(list))
		for i, item := range list {
			g.List[i] = toGobValue(item)
		}
	case value.KindMapping:
		m, _ := v.AsMapping()
		g.Map = make(map[string]gobValue, len(m))
		for k, item := range m {
			g.Map[k] = toGobValue(item)
		}
	}
	return g
}

// fromGobValue converts a gob wire representation back into a value
func fromGobValue(g gobValue) value.Value {
	switch g.Kind {
	case value.KindBool:
		return value.Bool(g.Bool)
	case value.KindNumber:
		return value.Number(g.Num)
	case value.KindString:
		return value.String(g.Str)
	case value.KindList:
		list := make([]value.Value, len(g.List))
		for i, item := range g.List {
			list[i] = fromGobValue(item)
		}
		return value.List(list...)
	case value.KindMapping:
		m := make(value.Mapping, len(g.Map))
		for k, item := range g.Map {
			m[k] = fromGobValue(item)
		}
		return value.Map(m)
	default:
		return value.Null()
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISnapshotSerializer)
// --------------------------------------------------------------------------

func (g gobSerializerImpl) Serialize(snapshot value.Mapping) ([]byte, error) {
	wire := make(map[string]gobValue, len(snapshot))
	for k, v := range snapshot {
		wire[k] = toGobValue(v)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g gobSerializerImpl) Deserialize(b []byte) (value.Mapping, error) {
	var wire map[string]gobValue
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&wire); err != nil {
		return nil, err
	}

	snapshot := make(value.Mapping, len(wire))
	for k, v := range wire {
		snapshot[k] = fromGobValue(v)
	}
	return snapshot, nil
}

func (g gobSerializerImpl) Name() string {
	return "gob"
}
