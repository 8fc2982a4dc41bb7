package scalar

// Registration maps one GraphQL scalar name to its host type and,
// optionally, a custom adapter. A nil Adapter falls back to the built-in
// table entry for HostType.
type Registration struct {
	HostType string
	Adapter  Adapter
}

// Registry resolves scalar types to adapters. Read-only after
// construction, safe for concurrent resolution.
type Registry struct {
	regs map[string]Registration
}

func NewRegistry(regs map[string]Registration) *Registry {
	copied := make(map[string]Registration, len(regs))
	for name, reg := range regs {
		copied[name] = reg
	}
	return &Registry{regs: copied}
}

// HostTypeFor returns the host type a scalar maps to: the registered
// mapping if present, else the default for the built-in GraphQL scalars,
// else "".
func (r *Registry) HostTypeFor(graphqlName string) string {
	if reg, ok := r.regs[graphqlName]; ok && reg.HostType != "" {
		return reg.HostType
	}
	return defaultHostTypes[graphqlName]
}

// Resolve returns the adapter for t. Resolution order: exact GraphQL name
// match among registrations, then the built-in table keyed by host type.
func (r *Registry) Resolve(t Type) (Adapter, error) {
	if reg, ok := r.regs[t.GraphQLName]; ok && reg.Adapter != nil {
		return reg.Adapter, nil
	}
	if a, ok := builtins()[t.HostType]; ok {
		return a, nil
	}
	return nil, &UnresolvedScalarError{GraphQLName: t.GraphQLName, HostType: t.HostType}
}
