package codec

import (
	descriptor "github.com/hanpama/wiregraph/internal/descriptor"
)

// TypenameKey is the discriminator key fragment dispatch reads from
// payload objects.
const TypenameKey = "__typename"

// Decode walks the operation's descriptor tree over a response data object
// and produces the typed value tree. Pure function of (descriptors, data):
// safe to call concurrently over shared descriptors.
func Decode(op *descriptor.Operation, data map[string]any) (*Value, error) {
	return decodeObject(op.Root, data, nil)
}

// DecodeField decodes a single field descriptor against one payload value.
// An absent key and an explicit null are treated identically.
func DecodeField(d *descriptor.Field, raw any) (*Value, error) {
	return decodeValue(d, raw, Path{d.ResponseName}, d.ListDepth)
}

func decodeValue(d *descriptor.Field, raw any, path Path, depth int) (*Value, error) {
	if raw == nil {
		if d.Nullable {
			return &Value{Kind: ValueNull}, nil
		}
		return nil, &UnexpectedNullError{Path: path}
	}
	if depth > 0 {
		arr, ok := raw.([]any)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Want: "list", Got: jsonTypeName(raw)}
		}
		items := make([]*Value, len(arr))
		for i, elem := range arr {
			item, err := decodeValue(d, elem, appendPath(path, i), depth-1)
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return &Value{Kind: ValueList, List: items}, nil
	}
	switch d.Kind {
	case descriptor.KindScalar:
		decoded, err := d.Adapter.Decode(raw)
		if err != nil {
			return nil, &ScalarDecodeError{Path: path, Type: d.Scalar, Err: err}
		}
		return &Value{Kind: ValueScalar, Scalar: decoded}, nil
	case descriptor.KindObject:
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, &TypeMismatchError{Path: path, Want: "object", Got: jsonTypeName(raw)}
		}
		return decodeObject(d.Children, obj, path)
	default:
		violate(path, "fragment descriptor cannot decode a value of its own")
		return nil, nil
	}
}

func decodeObject(children []*descriptor.Field, obj map[string]any, path Path) (*Value, error) {
	v := &Value{Kind: ValueObject}
	if err := decodeInto(v, children, obj, path); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeInto(v *Value, children []*descriptor.Field, obj map[string]any, path Path) error {
	for _, child := range children {
		if child.Kind == descriptor.KindFragment {
			if err := decodeFragment(child, obj, v, path); err != nil {
				return err
			}
			continue
		}
		fv, err := decodeValue(child, obj[child.WireName], appendPath(path, child.ResponseName), child.ListDepth)
		if err != nil {
			return err
		}
		v.Fields = append(v.Fields, ObjectField{Name: child.ResponseName, Value: fv})
	}
	return nil
}

// decodeFragment selects the first variant whose type condition contains
// the object's discriminator and merges its fields into parent. No match
// contributes nothing: the server may return types this operation never
// named.
func decodeFragment(d *descriptor.Field, obj map[string]any, parent *Value, path Path) error {
	typename, _ := obj[TypenameKey].(string)
	parent.Typename = typename
	matched := -1
	for i, variant := range d.Variants {
		if variant.Matches(typename) {
			matched = i
			break
		}
	}
	parent.Matches = append(parent.Matches, matched)
	if matched < 0 {
		return nil
	}
	return decodeInto(parent, d.Variants[matched].Children, obj, path)
}
