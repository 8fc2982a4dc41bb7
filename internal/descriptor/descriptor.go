package descriptor

import (
	language "github.com/hanpama/wiregraph/internal/language"
	scalar "github.com/hanpama/wiregraph/internal/scalar"
)

// Kind discriminates what a field descriptor describes.
type Kind int

const (
	// KindScalar is a leaf decoded through a scalar adapter.
	KindScalar Kind = iota
	// KindObject is a nested selection decoded from a JSON object.
	KindObject
	// KindFragment dispatches on the discriminator to one of its variants.
	KindFragment
)

// Field describes one selected field of an operation response.
// Invariants and boundaries:
//   - WireName is the key read from the payload object; ResponseName is the
//     alias the decoded value is stored under. ResponseName is unique among
//     siblings (aliasing disambiguates duplicate wire names).
//   - ListDepth counts list wrappers around the field type; Nullable applies
//     at every list depth.
//   - A KindFragment field carries no names of its own and appears at most
//     once per selection level; its variants are tried in order.
//   - Fields are immutable after Build and shared read-only across codec
//     invocations.
type Field struct {
	WireName     string
	ResponseName string
	Nullable     bool
	ListDepth    int
	Kind         Kind

	// Scalar leaf: the scalar identity and its resolved adapter.
	Scalar  scalar.Type
	Adapter scalar.Adapter

	// Object: sub-selections in document order.
	Children []*Field

	// Fragment: conditioned alternatives, first match wins.
	Variants []*Variant
}

// Variant is one conditioned alternative under a fragment field.
type Variant struct {
	// TypeCondition lists the concrete object types the variant applies to.
	// An empty list is the unconditioned default and matches any type.
	TypeCondition []string
	Children      []*Field
}

// Matches reports whether the variant applies to the given concrete type name.
func (v *Variant) Matches(typename string) bool {
	if len(v.TypeCondition) == 0 {
		return true
	}
	for _, name := range v.TypeCondition {
		if name == typename {
			return true
		}
	}
	return false
}

// Operation is one compiled operation: the canonical document text that
// feeds identity computation plus the descriptor tree for its response.
type Operation struct {
	Name     string
	Type     language.Operation
	Document string
	Root     []*Field
}
