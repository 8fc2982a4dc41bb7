package codec

// ValueKind tags the shape of a decoded value node.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueScalar
	ValueList
	ValueObject
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueScalar:
		return "scalar"
	case ValueList:
		return "list"
	case ValueObject:
		return "object"
	}
	return "unknown"
}

// Value is one node of a decoded response tree. Object nodes keep their
// fields in descriptor order, with the fields of a matched fragment variant
// inlined at the fragment's position. Matches records, per fragment child
// of the object's descriptor in traversal order, which variant was selected
// (-1 when none applied). Typename holds the discriminator read during
// fragment dispatch so encoding can reproduce it.
//
// A Value is created per decode call and owned by that caller; descriptors
// stay shared, values do not.
type Value struct {
	Kind     ValueKind
	Scalar   any
	List     []*Value
	Fields   []ObjectField
	Matches  []int
	Typename string
}

// ObjectField is one named entry of an object value.
type ObjectField struct {
	Name  string
	Value *Value
}

// IsNull reports whether the node is the null value.
func (v *Value) IsNull() bool { return v == nil || v.Kind == ValueNull }

// Field returns the first field with the given response name, or nil.
func (v *Value) Field(name string) *Value {
	if v == nil || v.Kind != ValueObject {
		return nil
	}
	for _, f := range v.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	return nil
}
