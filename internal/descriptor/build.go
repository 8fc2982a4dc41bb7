package descriptor

import (
	"errors"
	"sort"
	"strings"

	language "github.com/hanpama/wiregraph/internal/language"
	scalar "github.com/hanpama/wiregraph/internal/scalar"
	schema "github.com/hanpama/wiregraph/internal/schema"
)

// Build compiles every operation in doc into its descriptor tree. The
// document is expected to be schema-validated already; Build still reports
// whatever it cannot compile as a ValidationError and never returns a
// partial result alongside one.
func Build(s *schema.Schema, doc *language.QueryDocument, reg *scalar.Registry) ([]*Operation, error) {
	b := &builder{
		schema:    s,
		registry:  reg,
		fragments: make(map[string]*language.FragmentDefinition, len(doc.Fragments)),
	}
	for _, frag := range doc.Fragments {
		b.fragments[frag.Name] = frag
	}
	ops := make([]*Operation, 0, len(doc.Operations))
	for _, def := range doc.Operations {
		if op := b.buildOperation(def); op != nil {
			ops = append(ops, op)
		}
	}
	if len(b.violations) > 0 {
		return nil, ValidationError(b.violations)
	}
	return ops, nil
}

type builder struct {
	schema     *schema.Schema
	registry   *scalar.Registry
	fragments  map[string]*language.FragmentDefinition
	violations []*Violation

	operation string // name of the operation being built, for diagnostics
}

func (b *builder) report(v *Violation) {
	b.violations = append(b.violations, v)
}

func (b *builder) buildOperation(def *language.OperationDefinition) *Operation {
	if def.Name == "" {
		b.report(violationAnonymousOperation(def.Position))
		return nil
	}
	root := b.schema.RootType(def.Operation)
	if root == nil {
		b.report(violationMissingRootType(string(def.Operation), def.Position))
		return nil
	}
	b.operation = def.Name
	return &Operation{
		Name:     def.Name,
		Type:     def.Operation,
		Document: language.PrintOperationDocument(def, b.fragmentClosure(def)),
		Root:     b.buildSelectionSet(root, def.SelectionSet),
	}
}

// fragmentClosure lists the fragment definitions an operation reaches,
// in first-use order.
func (b *builder) fragmentClosure(def *language.OperationDefinition) []*language.FragmentDefinition {
	var frags []*language.FragmentDefinition
	seen := make(map[string]bool)
	var walk func(set language.SelectionSet)
	walk = func(set language.SelectionSet) {
		for _, sel := range set {
			switch s := sel.(type) {
			case *language.Field:
				walk(s.SelectionSet)
			case *language.InlineFragment:
				walk(s.SelectionSet)
			case *language.FragmentSpread:
				if seen[s.Name] {
					continue
				}
				seen[s.Name] = true
				frag := b.fragments[s.Name]
				if frag == nil {
					continue
				}
				frags = append(frags, frag)
				walk(frag.SelectionSet)
			}
		}
	}
	walk(def.SelectionSet)
	return frags
}

// level accumulates one selection depth before descriptors are built:
// plain fields merge by response name, conditioned fragments merge by
// their resolved type condition. fragmentPos remembers where among the
// plain fields the first conditioned fragment appeared.
type level struct {
	fields      []*fieldAcc
	fieldIdx    map[string]*fieldAcc
	variants    []*variantAcc
	variantIdx  map[string]*variantAcc
	fragmentPos int
}

type fieldAcc struct {
	def        *schema.Field
	field      *language.Field
	selections language.SelectionSet
}

type variantAcc struct {
	condition  []string
	condType   *schema.Type
	selections language.SelectionSet
}

// typenameField backs the __typename meta field, selectable on any type.
var typenameField = &schema.Field{
	Name: "__typename",
	Type: schema.NonNullType(schema.NamedType("String")),
}

func (b *builder) buildSelectionSet(parent *schema.Type, set language.SelectionSet) []*Field {
	lv := &level{
		fieldIdx:    make(map[string]*fieldAcc),
		variantIdx:  make(map[string]*variantAcc),
		fragmentPos: -1,
	}
	b.collect(lv, parent, set)
	return b.emit(lv)
}

func (b *builder) collect(lv *level, parent *schema.Type, set language.SelectionSet) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *language.Field:
			b.collectField(lv, parent, s)
		case *language.InlineFragment:
			b.collectFragment(lv, parent, s.TypeCondition, s.SelectionSet, s.Position)
		case *language.FragmentSpread:
			frag := b.fragments[s.Name]
			if frag == nil {
				b.report(violationUnknownFragment(s.Name, s.Position))
				continue
			}
			b.collectFragment(lv, parent, frag.TypeCondition, frag.SelectionSet, s.Position)
		}
	}
}

func (b *builder) collectField(lv *level, parent *schema.Type, f *language.Field) {
	responseName := f.Alias
	if responseName == "" {
		responseName = f.Name
	}
	if acc := lv.fieldIdx[responseName]; acc != nil {
		// Same response name selected again: the validator guarantees the
		// selections are mergeable, so only the sub-selections accumulate.
		merged := make(language.SelectionSet, 0, len(acc.selections)+len(f.SelectionSet))
		merged = append(merged, acc.selections...)
		merged = append(merged, f.SelectionSet...)
		acc.selections = merged
		return
	}
	def := parent.Field(f.Name)
	if f.Name == "__typename" {
		def = typenameField
	}
	if def == nil {
		b.report(violationUnknownField(parent.Name, f.Name, f.Position))
		return
	}
	acc := &fieldAcc{def: def, field: f, selections: f.SelectionSet}
	lv.fields = append(lv.fields, acc)
	lv.fieldIdx[responseName] = acc
}

func (b *builder) collectFragment(lv *level, parent *schema.Type, condition string, set language.SelectionSet, pos *language.Position) {
	condType := parent
	if condition != "" {
		condType = b.schema.Types[condition]
		if condType == nil {
			b.report(violationUnknownType(condition, pos))
			return
		}
	}
	parentPossible := b.schema.PossibleTypes(parent.Name)
	condPossible := b.schema.PossibleTypes(condType.Name)
	if subset(parentPossible, condPossible) {
		// The condition always holds here, so the fragment body collapses
		// into the enclosing level.
		b.collect(lv, condType, set)
		return
	}
	applies := intersect(parentPossible, condPossible)
	if len(applies) == 0 {
		// The validator rejects impossible fragments; nothing applies here.
		return
	}
	sort.Strings(applies)
	key := strings.Join(applies, "|")
	if acc := lv.variantIdx[key]; acc != nil {
		merged := make(language.SelectionSet, 0, len(acc.selections)+len(set))
		merged = append(merged, acc.selections...)
		merged = append(merged, set...)
		acc.selections = merged
		return
	}
	if lv.fragmentPos < 0 {
		lv.fragmentPos = len(lv.fields)
	}
	acc := &variantAcc{condition: applies, condType: condType, selections: set}
	lv.variants = append(lv.variants, acc)
	lv.variantIdx[key] = acc
}

func (b *builder) emit(lv *level) []*Field {
	children := make([]*Field, 0, len(lv.fields)+1)
	emitFragment := func() {
		variants := make([]*Variant, 0, len(lv.variants))
		for _, acc := range lv.variants {
			variants = append(variants, &Variant{
				TypeCondition: acc.condition,
				Children:      b.buildSelectionSet(acc.condType, acc.selections),
			})
		}
		children = append(children, &Field{Kind: KindFragment, Variants: variants})
	}
	for i, acc := range lv.fields {
		if i == lv.fragmentPos {
			emitFragment()
		}
		children = append(children, b.buildField(acc))
	}
	if lv.fragmentPos >= len(lv.fields) {
		emitFragment()
	}
	return children
}

func (b *builder) buildField(acc *fieldAcc) *Field {
	f := acc.field
	responseName := f.Alias
	if responseName == "" {
		responseName = f.Name
	}
	ref := acc.def.Type
	fd := &Field{
		WireName:     f.Name,
		ResponseName: responseName,
		Nullable:     !ref.IsNonNull(),
		ListDepth:    ref.ListDepth(),
	}
	named := ref.GetNamedType()
	t := b.schema.Types[named]
	if t == nil {
		b.report(violationUnknownType(named, f.Position))
		return fd
	}
	switch t.Kind {
	case schema.TypeKindScalar, schema.TypeKindEnum:
		fd.Kind = KindScalar
		fd.Scalar = scalar.Type{GraphQLName: named, HostType: b.hostType(t)}
		adapter, err := b.registry.Resolve(fd.Scalar)
		if err != nil {
			var unresolved *scalar.UnresolvedScalarError
			if errors.As(err, &unresolved) {
				b.report(violationUnresolvedScalar(unresolved, b.operation, f.Position))
			} else {
				b.report(violationWithPosition(err.Error(), f.Position))
			}
			return fd
		}
		fd.Adapter = adapter
	default:
		fd.Kind = KindObject
		fd.Children = b.buildSelectionSet(t, acc.selections)
	}
	return fd
}

// hostType picks the host representation a leaf type decodes into.
// Enums without an explicit mapping read as plain strings.
func (b *builder) hostType(t *schema.Type) string {
	if host := b.registry.HostTypeFor(t.Name); host != "" {
		return host
	}
	if t.Kind == schema.TypeKindEnum {
		return scalar.HostString
	}
	return ""
}

func subset(sub, super []string) bool {
	for _, name := range sub {
		if !contains(super, name) {
			return false
		}
	}
	return true
}

func intersect(a, b []string) []string {
	var out []string
	for _, name := range a {
		if contains(b, name) {
			out = append(out, name)
		}
	}
	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
