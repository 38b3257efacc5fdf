package language

import (
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"github.com/vektah/gqlparser/v2/validator"
)

// ParseQuery parses an executable document without validating it.
func ParseQuery(name, source string) (*QueryDocument, error) {
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

// LoadSchema parses and validates the given SDL sources (prelude included) into
// a single gqlparser schema.
func LoadSchema(sources ...*Source) (*ASTSchema, error) {
	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// LoadQuery parses source and validates it against s.
func LoadQuery(s *ASTSchema, source string) (*QueryDocument, error) {
	doc, errs := gqlparser.LoadQuery(s, source)
	if len(errs) > 0 {
		return nil, errs
	}
	return doc, nil
}

// ValidateQuery runs the standard validation rules over an already parsed
// document, keeping its source name in error positions.
func ValidateQuery(s *ASTSchema, doc *QueryDocument) error {
	if errs := validator.Validate(s, doc); len(errs) > 0 {
		return errs
	}
	return nil
}
