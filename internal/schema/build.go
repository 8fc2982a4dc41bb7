package schema

import (
	"sort"
	"strconv"

	language "github.com/hanpama/wiregraph/internal/language"
)

// Load merges and validates SDL sources into a Schema model.
func Load(sources ...*language.Source) (*Schema, error) {
	astSchema, err := language.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return fromAST(astSchema), nil
}

// LoadSDL is a convenience wrapper around Load for a single source.
func LoadSDL(sdl string) (*Schema, error) {
	return Load(&language.Source{Name: "schema.graphql", Input: sdl})
}

func fromAST(astSchema *language.Schema) *Schema {
	s := &Schema{
		Types:      make(map[string]*Type),
		Directives: make(map[string]*Directive),
		AST:        astSchema,
	}
	if astSchema.Query != nil {
		s.QueryType = astSchema.Query.Name
	}
	if astSchema.Mutation != nil {
		s.MutationType = astSchema.Mutation.Name
	}
	if astSchema.Subscription != nil {
		s.SubscriptionType = astSchema.Subscription.Name
	}
	s.Description = astSchema.Description

	for name, def := range astSchema.Types {
		if isIntrospectionType(name) {
			continue
		}
		if builtin, ok := builtinScalars[name]; ok {
			s.Types[name] = builtin
			continue
		}
		s.Types[name] = buildType(astSchema, def)
	}

	s.Directives["include"] = includeDirective
	s.Directives["skip"] = skipDirective
	for name, def := range astSchema.Directives {
		if isBuiltinDirective(name) {
			continue
		}
		s.Directives[name] = buildDirective(def)
	}
	return s
}

func buildType(astSchema *language.Schema, def *language.Definition) *Type {
	t := &Type{Name: def.Name, Description: def.Description}
	switch def.Kind {
	case language.Scalar:
		t.Kind = TypeKindScalar
		if specified := def.Directives.ForName("specifiedBy"); specified != nil {
			if arg := specified.Arguments.ForName("url"); arg != nil {
				url := arg.Value.Raw
				t.SpecifiedByURL = &url
			}
		}
	case language.Object:
		t.Kind = TypeKindObject
		t.Interfaces = append(t.Interfaces, def.Interfaces...)
		t.Fields = buildFields(def)
	case language.Interface:
		t.Kind = TypeKindInterface
		t.Interfaces = append(t.Interfaces, def.Interfaces...)
		t.Fields = buildFields(def)
		t.PossibleTypes = possibleTypeNames(astSchema, def.Name)
	case language.Union:
		t.Kind = TypeKindUnion
		t.PossibleTypes = append(t.PossibleTypes, def.Types...)
	case language.Enum:
		t.Kind = TypeKindEnum
		for _, v := range def.EnumValues {
			ev := &EnumValue{Name: v.Name, Description: v.Description}
			ev.IsDeprecated, ev.DeprecationReason = deprecation(v.Directives)
			t.EnumValues = append(t.EnumValues, ev)
		}
	case language.InputObject:
		t.Kind = TypeKindInputObject
		if def.Directives.ForName("oneOf") != nil {
			t.OneOf = true
		}
		for _, f := range def.Fields {
			in := &InputValue{
				Name:         f.Name,
				Description:  f.Description,
				Type:         typeRefFromAST(f.Type),
				DefaultValue: valueFromAST(f.DefaultValue),
			}
			in.IsDeprecated, in.DeprecationReason = deprecation(f.Directives)
			t.InputFields = append(t.InputFields, in)
		}
	}
	return t
}

func buildFields(def *language.Definition) []*Field {
	fields := make([]*Field, 0, len(def.Fields))
	for _, f := range def.Fields {
		field := &Field{
			Name:        f.Name,
			Description: f.Description,
			Type:        typeRefFromAST(f.Type),
		}
		field.IsDeprecated, field.DeprecationReason = deprecation(f.Directives)
		for _, arg := range f.Arguments {
			field.Arguments = append(field.Arguments, &InputValue{
				Name:         arg.Name,
				Description:  arg.Description,
				Type:         typeRefFromAST(arg.Type),
				DefaultValue: valueFromAST(arg.DefaultValue),
			})
		}
		fields = append(fields, field)
	}
	return fields
}

func buildDirective(def *language.DirectiveDefinition) *Directive {
	d := &Directive{
		Name:         def.Name,
		Description:  def.Description,
		IsRepeatable: def.IsRepeatable,
	}
	for _, loc := range def.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, arg := range def.Arguments {
		d.Arguments = append(d.Arguments, &InputValue{
			Name:         arg.Name,
			Description:  arg.Description,
			Type:         typeRefFromAST(arg.Type),
			DefaultValue: valueFromAST(arg.DefaultValue),
		})
	}
	return d
}

// possibleTypeNames lists the concrete objects behind an abstract type,
// sorted for deterministic output.
func possibleTypeNames(astSchema *language.Schema, name string) []string {
	defs := astSchema.PossibleTypes[name]
	names := make([]string, 0, len(defs))
	for _, def := range defs {
		names = append(names, def.Name)
	}
	sort.Strings(names)
	return names
}

func typeRefFromAST(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	if t.NonNull {
		return NonNullType(typeRefFromAST(&language.Type{NamedType: t.NamedType, Elem: t.Elem}))
	}
	if t.NamedType != "" {
		return NamedType(t.NamedType)
	}
	if t.Elem != nil {
		return ListType(typeRefFromAST(t.Elem))
	}
	return nil
}

// enumLiteral renders unquoted in SDL output.
type enumLiteral string

func valueFromAST(v *language.Value) any {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case language.IntValue:
		n, err := strconv.ParseInt(v.Raw, 10, 64)
		if err != nil {
			return v.Raw
		}
		return n
	case language.FloatValue:
		f, err := strconv.ParseFloat(v.Raw, 64)
		if err != nil {
			return v.Raw
		}
		return f
	case language.StringValue, language.BlockValue:
		return v.Raw
	case language.BooleanValue:
		return v.Raw == "true"
	case language.NullValue:
		return nil
	case language.EnumValue:
		return enumLiteral(v.Raw)
	case language.ListValue:
		list := make([]any, 0, len(v.Children))
		for _, child := range v.Children {
			list = append(list, valueFromAST(child.Value))
		}
		return list
	case language.ObjectValue:
		obj := make(map[string]any, len(v.Children))
		for _, child := range v.Children {
			obj[child.Name] = valueFromAST(child.Value)
		}
		return obj
	default:
		return v.Raw
	}
}

func deprecation(directives language.DirectiveList) (bool, string) {
	d := directives.ForName("deprecated")
	if d == nil {
		return false, ""
	}
	if arg := d.Arguments.ForName("reason"); arg != nil {
		return true, arg.Value.Raw
	}
	return true, ""
}

func isIntrospectionType(name string) bool {
	return len(name) >= 2 && name[0] == '_' && name[1] == '_'
}

func isBuiltinDirective(name string) bool {
	switch name {
	case "include", "skip", "deprecated", "specifiedBy", "oneOf", "defer":
		return true
	}
	return false
}
