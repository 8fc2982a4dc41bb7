package descriptor

import (
	"fmt"

	language "github.com/hanpama/wiregraph/internal/language"
	scalar "github.com/hanpama/wiregraph/internal/scalar"
)

// Common reusable violation constructors (template helpers)
// NOTE: Keep messages stable to avoid breaking snapshot tests.

func violationAnonymousOperation(pos *language.Position) *Violation {
	return violationWithPosition(
		"Operation must be named to be compiled",
		pos,
	)
}

func violationMissingRootType(operationType string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Schema defines no %s root type", operationType),
		pos,
	)
}

func violationUnknownField(typeName, fieldName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Field %q not found on type %q", fieldName, typeName),
		pos,
	)
}

func violationUnknownType(typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Type %q not found in schema", typeName),
		pos,
	)
}

func violationUnknownFragment(fragmentName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Fragment %q is not defined", fragmentName),
		pos,
	)
}

func violationUnresolvedScalar(err *scalar.UnresolvedScalarError, operationName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Operation %q: %s", operationName, err.Error()),
		pos,
	)
}
