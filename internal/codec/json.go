package codec

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	descriptor "github.com/hanpama/wiregraph/internal/descriptor"
)

// DecodeJSON decodes a raw response body (the data object bytes) against
// the operation's descriptor tree.
func DecodeJSON(op *descriptor.Operation, data []byte) (*Value, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid response JSON")
	}
	root := gjson.ParseBytes(data).Value()
	obj, ok := root.(map[string]any)
	if !ok {
		return nil, &TypeMismatchError{Want: "object", Got: jsonTypeName(root)}
	}
	return Decode(op, obj)
}

// EncodeJSON re-serializes a decoded value tree to response body bytes.
func EncodeJSON(op *descriptor.Operation, v *Value) ([]byte, error) {
	return json.Marshal(Encode(op, v))
}
