// Package naming turns GraphQL names into emitted identifiers. Every function
// here is a pure string transform; none of them influence how a selection set
// is resolved.
package naming

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Convention is a case convention applied to each name segment.
type Convention string

const (
	Keep           Convention = "keep"
	PascalCase     Convention = "pascal-case"
	CamelCase      Convention = "camel-case"
	SnakeCase      Convention = "snake-case"
	ScreamingSnake Convention = "constant-case"
	KebabCase      Convention = "kebab-case"
)

// ParseConvention accepts the names above; the empty string means Keep.
func ParseConvention(s string) (Convention, error) {
	switch c := Convention(s); c {
	case "":
		return Keep, nil
	case Keep, PascalCase, CamelCase, SnakeCase, ScreamingSnake, KebabCase:
		return c, nil
	}
	return "", fmt.Errorf("unknown naming convention %q", s)
}

// Apply converts s. Leading underscores survive so that names such as
// __typename stay recognizable.
func (c Convention) Apply(s string) string {
	trimmed := strings.TrimLeft(s, "_")
	lead := s[:len(s)-len(trimmed)]
	switch c {
	case PascalCase:
		return lead + strcase.ToCamel(trimmed)
	case CamelCase:
		return lead + strcase.ToLowerCamel(trimmed)
	case SnakeCase:
		return lead + strcase.ToSnake(trimmed)
	case ScreamingSnake:
		return lead + strcase.ToScreamingSnake(trimmed)
	case KebabCase:
		return lead + strcase.ToKebab(trimmed)
	}
	return s
}

const defaultFragmentSuffix = "Fragment"

// Policy holds the identifier rules shared by every component.
type Policy struct {
	Convention Convention
	TypePrefix string
	TypeSuffix string
	// FragmentSuffix is appended to fragment type names. Empty means "Fragment".
	FragmentSuffix string
	// DedupeOperationSuffix drops the operation suffix when the operation name
	// already ends with it (GetUserQuery stays GetUserQuery).
	DedupeOperationSuffix bool
	// DedupeFragmentSuffix does the same for fragment names.
	DedupeFragmentSuffix bool
}

// Default is PascalCase with the "Fragment" suffix.
func Default() Policy {
	return Policy{Convention: PascalCase, FragmentSuffix: defaultFragmentSuffix}
}

func (p Policy) convert(s string) string { return p.Convention.Apply(s) }

func (p Policy) fragmentSuffix() string {
	if p.FragmentSuffix == "" {
		return defaultFragmentSuffix
	}
	return p.FragmentSuffix
}

// TypeName names a schema type.
func (p Policy) TypeName(name string) string {
	return p.TypePrefix + p.convert(name) + p.TypeSuffix
}

// FragmentTypeName names the shape of a fragment whose type condition has a
// single possible concrete type.
func (p Policy) FragmentTypeName(fragment string) string {
	return p.TypePrefix + p.convert(fragment) + p.suffixFor(fragment, p.fragmentSuffix(), p.DedupeFragmentSuffix) + p.TypeSuffix
}

// QualifiedFragmentTypeName names one concrete-type variant of a fragment
// whose type condition has several possible types: NodeFields_Dog_Fragment.
func (p Policy) QualifiedFragmentTypeName(fragment, concreteType string) string {
	suffix := p.suffixFor(fragment, p.fragmentSuffix(), p.DedupeFragmentSuffix)
	if suffix == "" {
		return p.TypePrefix + p.convert(fragment) + "_" + p.convert(concreteType) + p.TypeSuffix
	}
	return p.TypePrefix + p.convert(fragment) + "_" + p.convert(concreteType) + "_" + suffix + p.TypeSuffix
}

// OperationTypeName names an operation result, e.g. GetUser + query -> GetUserQuery.
// Suffixes are appended verbatim, after the convention is applied to name.
func (p Policy) OperationTypeName(name, operation string) string {
	return p.TypePrefix + p.convert(name) + p.suffixFor(name, operationSuffix(operation), p.DedupeOperationSuffix) + p.TypeSuffix
}

// VariablesTypeName names the variables of an operation.
func (p Policy) VariablesTypeName(name, operation string) string {
	return p.TypePrefix + p.convert(name) + p.suffixFor(name, operationSuffix(operation), p.DedupeOperationSuffix) + "Variables" + p.TypeSuffix
}

func operationSuffix(operation string) string {
	if operation == "" {
		return ""
	}
	return strings.ToUpper(operation[:1]) + operation[1:]
}

func (p Policy) suffixFor(name, suffix string, dedupe bool) string {
	if suffix == "" {
		return ""
	}
	if dedupe && strings.HasSuffix(strings.ToLower(name), strings.ToLower(suffix)) {
		return ""
	}
	return suffix
}
