package serializer

import (
	"encoding/json"

	"github.com/ValentinKolb/pKV/lib/value"
)

// NewJSONSerializer creates a new serializer using json encoding
func NewJSONSerializer() ISnapshotSerializer {
	return &jsonSerializerImpl{}
}

// jsonSerializerImpl implements the ISnapshotSerializer interface using json encoding
type jsonSerializerImpl struct {
}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.ISnapshotSerializer)
// --------------------------------------------------------------------------

func (j jsonSerializerImpl) Serialize(snapshot value.Mapping) ([]byte, error) {
	if snapshot == nil {
		snapshot = value.Mapping{}
	}
	return json.Marshal(snapshot)
}

func (j jsonSerializerImpl) Deserialize(b []byte) (value.Mapping, error) {
	snapshot := value.Mapping{}
	if err := json.Unmarshal(b, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (j jsonSerializerImpl) Name() string {
	return "json"
}
