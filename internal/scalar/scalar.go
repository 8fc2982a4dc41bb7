package scalar

import "fmt"

// Type identifies a scalar by its GraphQL name and the nominal host type
// it maps to in the generated model.
type Type struct {
	GraphQLName string
	HostType    string
}

// Adapter converts between raw wire values and typed host values.
// Implementations must be stateless; one adapter may serve many scalar
// types with the same underlying representation.
type Adapter interface {
	Decode(raw any) (any, error)
	Encode(v any) (any, error)
}

// AdapterFuncs builds an Adapter from plain functions.
func AdapterFuncs(decode, encode func(any) (any, error)) Adapter {
	return funcs{decode: decode, encode: encode}
}

type funcs struct {
	decode func(any) (any, error)
	encode func(any) (any, error)
}

func (f funcs) Decode(raw any) (any, error) { return f.decode(raw) }
func (f funcs) Encode(v any) (any, error)   { return f.encode(v) }

// UnresolvedScalarError reports a scalar with neither a registered adapter
// nor a built-in host type. Raised while descriptors are built, before any
// document is accepted for codec use.
type UnresolvedScalarError struct {
	GraphQLName string
	HostType    string
}

func (e *UnresolvedScalarError) Error() string {
	return fmt.Sprintf("no adapter for scalar %s (host type %q)", e.GraphQLName, e.HostType)
}
