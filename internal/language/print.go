package language

import (
	"sort"
	"strconv"
	"strings"
)

// PrintDocument produces the canonical single-spaced text of a query document.
// Deterministic: argument lists, variable definitions and input object fields
// are ordered by name; selections keep their source order. Comments and
// insignificant whitespace do not survive.
func PrintDocument(doc *QueryDocument) string {
	var b strings.Builder
	for i, op := range doc.Operations {
		if i > 0 {
			b.WriteString("\n")
		}
		printOperation(&b, op)
	}
	for _, frag := range doc.Fragments {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		printFragmentDefinition(&b, frag)
	}
	return b.String()
}

// PrintOperationDocument prints one operation together with the fragment
// definitions it needs, operation first.
func PrintOperationDocument(op *OperationDefinition, fragments []*FragmentDefinition) string {
	var b strings.Builder
	printOperation(&b, op)
	for _, frag := range fragments {
		b.WriteString("\n")
		printFragmentDefinition(&b, frag)
	}
	return b.String()
}

// ----- print helpers -----

func printOperation(b *strings.Builder, op *OperationDefinition) {
	b.WriteString(string(op.Operation))
	if op.Name != "" {
		b.WriteString(" ")
		b.WriteString(op.Name)
	}
	printVariableDefinitions(b, op.VariableDefinitions)
	printDirectives(b, op.Directives)
	b.WriteString(" ")
	printSelectionSet(b, op.SelectionSet)
}

func printFragmentDefinition(b *strings.Builder, frag *FragmentDefinition) {
	b.WriteString("fragment ")
	b.WriteString(frag.Name)
	b.WriteString(" on ")
	b.WriteString(frag.TypeCondition)
	printDirectives(b, frag.Directives)
	b.WriteString(" ")
	printSelectionSet(b, frag.SelectionSet)
}

func printVariableDefinitions(b *strings.Builder, defs VariableDefinitionList) {
	if len(defs) == 0 {
		return
	}
	sorted := make(VariableDefinitionList, len(defs))
	copy(sorted, defs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Variable < sorted[j].Variable })

	b.WriteString("(")
	for i, def := range sorted {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("$")
		b.WriteString(def.Variable)
		b.WriteString(": ")
		b.WriteString(printType(def.Type))
		if def.DefaultValue != nil {
			b.WriteString(" = ")
			printValue(b, def.DefaultValue)
		}
	}
	b.WriteString(")")
}

func printSelectionSet(b *strings.Builder, set SelectionSet) {
	if len(set) == 0 {
		return
	}
	b.WriteString("{ ")
	for i, sel := range set {
		if i > 0 {
			b.WriteString(" ")
		}
		switch s := sel.(type) {
		case *Field:
			printField(b, s)
		case *InlineFragment:
			printInlineFragment(b, s)
		case *FragmentSpread:
			b.WriteString("...")
			b.WriteString(s.Name)
			printDirectives(b, s.Directives)
		}
	}
	b.WriteString(" }")
}

func printField(b *strings.Builder, f *Field) {
	if f.Alias != "" && f.Alias != f.Name {
		b.WriteString(f.Alias)
		b.WriteString(": ")
	}
	b.WriteString(f.Name)
	printArguments(b, f.Arguments)
	printDirectives(b, f.Directives)
	if len(f.SelectionSet) > 0 {
		b.WriteString(" ")
		printSelectionSet(b, f.SelectionSet)
	}
}

func printInlineFragment(b *strings.Builder, frag *InlineFragment) {
	b.WriteString("...")
	if frag.TypeCondition != "" {
		b.WriteString(" on ")
		b.WriteString(frag.TypeCondition)
	}
	printDirectives(b, frag.Directives)
	b.WriteString(" ")
	printSelectionSet(b, frag.SelectionSet)
}

// Argument order carries no meaning in the language, so arguments are
// printed sorted by name.
func printArguments(b *strings.Builder, args ArgumentList) {
	if len(args) == 0 {
		return
	}
	sorted := make(ArgumentList, len(args))
	copy(sorted, args)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	b.WriteString("(")
	for i, arg := range sorted {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
		b.WriteString(": ")
		printValue(b, arg.Value)
	}
	b.WriteString(")")
}

// Directives keep their source order: repeatable directives make the order
// significant.
func printDirectives(b *strings.Builder, directives DirectiveList) {
	for _, d := range directives {
		b.WriteString(" @")
		b.WriteString(d.Name)
		printArguments(b, d.Arguments)
	}
}

func printValue(b *strings.Builder, v *Value) {
	switch v.Kind {
	case Variable:
		b.WriteString("$")
		b.WriteString(v.Raw)
	case StringValue, BlockValue:
		b.WriteString(strconv.Quote(v.Raw))
	case ListValue:
		b.WriteString("[")
		for i, child := range v.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			printValue(b, child.Value)
		}
		b.WriteString("]")
	case ObjectValue:
		children := make([]*ChildValue, len(v.Children))
		copy(children, v.Children)
		sort.SliceStable(children, func(i, j int) bool { return children[i].Name < children[j].Name })
		b.WriteString("{")
		for i, child := range children {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(child.Name)
			b.WriteString(": ")
			printValue(b, child.Value)
		}
		b.WriteString("}")
	default:
		b.WriteString(v.Raw)
	}
}

func printType(t *Type) string {
	if t == nil {
		return ""
	}
	var s string
	if t.NamedType != "" {
		s = t.NamedType
	} else if t.Elem != nil {
		s = "[" + printType(t.Elem) + "]"
	}
	if t.NonNull {
		s += "!"
	}
	return s
}
