package codec

import (
	"fmt"

	scalar "github.com/hanpama/wiregraph/internal/scalar"
)

// UnexpectedNullError reports a null (or absent) value where the descriptor
// does not allow one.
type UnexpectedNullError struct {
	Path Path
}

func (e *UnexpectedNullError) Error() string {
	return fmt.Sprintf("unexpected null at %s", e.Path)
}

// TypeMismatchError reports a payload value of the wrong JSON shape.
type TypeMismatchError struct {
	Path Path
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("expected %s at %s, got %s", e.Want, e.Path, e.Got)
}

// ScalarDecodeError reports an adapter failure for one leaf value.
type ScalarDecodeError struct {
	Path Path
	Type scalar.Type
	Err  error
}

func (e *ScalarDecodeError) Error() string {
	return fmt.Sprintf("cannot decode scalar %s at %s: %v", e.Type.GraphQLName, e.Path, e.Err)
}

func (e *ScalarDecodeError) Unwrap() error { return e.Err }

// InvariantViolation reports a descriptor/value mismatch during encoding.
// It is delivered by panic: the mismatch is a programming defect, not bad
// input data.
type InvariantViolation struct {
	Path    Path
	Message string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation at %s: %s", e.Path, e.Message)
}

func violate(path Path, format string, args ...any) {
	panic(&InvariantViolation{Path: path, Message: fmt.Sprintf(format, args...)})
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int32, int64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
