package language

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// Parse and validation failures surface as *Error (single) or ErrorList
// (aggregate). Both carry line/column locations.
type (
	Error     = gqlerror.Error
	ErrorList = gqlerror.List
)

func ParseQuery(source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseQueryFile parses an operation document keeping the file name in
// source positions.
func ParseQueryFile(name, source string) (*QueryDocument, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func ParseSchema(name, source string) (*SchemaDocument, error) {
	doc, err := parser.ParseSchema(&ast.Source{Name: name, Input: source})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadSchema merges and validates one or more SDL sources into an
// executable schema.
func LoadSchema(sources ...*Source) (*Schema, error) {
	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ValidateQuery checks a parsed operation document against the schema.
func ValidateQuery(s *Schema, doc *QueryDocument) error {
	if errs := validator.Validate(s, doc); len(errs) > 0 {
		return errs
	}
	return nil
}
