package codec

import (
	descriptor "github.com/hanpama/wiregraph/internal/descriptor"
)

// Encode is the structural inverse of Decode: it rebuilds the payload
// object a value tree was decoded from, restricted to the selected fields.
// Invariants and boundaries:
//   - The value must match the descriptor tree that produced it: same
//     field order, same variant matches, scalars the adapters accept.
//     Mismatches panic with *InvariantViolation rather than returning an
//     error; they indicate a defect, not bad input data.
//   - A fragment emits only the variant that was actually populated, plus
//     the discriminator captured at decode time.
func Encode(op *descriptor.Operation, v *Value) map[string]any {
	return encodeObject(op.Root, v, nil)
}

// EncodeField encodes a single field descriptor's value back to its raw form.
func EncodeField(d *descriptor.Field, v *Value) any {
	return encodeValue(d, v, Path{d.ResponseName}, d.ListDepth)
}

func encodeValue(d *descriptor.Field, v *Value, path Path, depth int) any {
	if v.IsNull() {
		if !d.Nullable {
			violate(path, "cannot encode null for non-nullable field")
		}
		return nil
	}
	if depth > 0 {
		if v.Kind != ValueList {
			violate(path, "expected list value, got %s", v.Kind)
		}
		out := make([]any, len(v.List))
		for i, item := range v.List {
			out[i] = encodeValue(d, item, appendPath(path, i), depth-1)
		}
		return out
	}
	switch d.Kind {
	case descriptor.KindScalar:
		if v.Kind != ValueScalar {
			violate(path, "expected scalar value, got %s", v.Kind)
		}
		encoded, err := d.Adapter.Encode(v.Scalar)
		if err != nil {
			violate(path, "cannot encode scalar %s: %v", d.Scalar.GraphQLName, err)
		}
		return encoded
	case descriptor.KindObject:
		if v.Kind != ValueObject {
			violate(path, "expected object value, got %s", v.Kind)
		}
		return encodeObject(d.Children, v, path)
	default:
		violate(path, "fragment descriptor cannot encode a value of its own")
		return nil
	}
}

func encodeObject(children []*descriptor.Field, v *Value, path Path) map[string]any {
	out := make(map[string]any, len(v.Fields))
	if v.Typename != "" {
		out[TypenameKey] = v.Typename
	}
	cur := &objectCursor{value: v, path: path}
	encodeInto(out, children, cur, path)
	if cur.field != len(v.Fields) {
		violate(path, "value carries %d fields beyond its descriptor", len(v.Fields)-cur.field)
	}
	return out
}

// objectCursor steps through an object value's fields and variant matches
// in the same order decode produced them.
type objectCursor struct {
	value *Value
	path  Path
	field int
	match int
}

func (c *objectCursor) nextField(responseName string) *Value {
	if c.field >= len(c.value.Fields) {
		violate(c.path, "missing value for field %s", responseName)
	}
	f := c.value.Fields[c.field]
	if f.Name != responseName {
		violate(c.path, "expected field %s, got %s", responseName, f.Name)
	}
	c.field++
	return f.Value
}

func (c *objectCursor) nextMatch() int {
	if c.match >= len(c.value.Matches) {
		violate(c.path, "missing variant match for fragment")
	}
	m := c.value.Matches[c.match]
	c.match++
	return m
}

func encodeInto(out map[string]any, children []*descriptor.Field, cur *objectCursor, path Path) {
	for _, child := range children {
		if child.Kind == descriptor.KindFragment {
			matched := cur.nextMatch()
			if matched < 0 {
				continue
			}
			if matched >= len(child.Variants) {
				violate(path, "variant match %d out of range", matched)
			}
			encodeInto(out, child.Variants[matched].Children, cur, path)
			continue
		}
		fv := cur.nextField(child.ResponseName)
		out[child.WireName] = encodeValue(child, fv, appendPath(path, child.ResponseName), child.ListDepth)
	}
}
