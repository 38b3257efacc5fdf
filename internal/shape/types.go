package shape

import (
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// Fragment is a named fragment definition available to spreads.
type Fragment struct {
	Name          string
	TypeCondition string
	SelectionSet  language.SelectionSet
	Directives    language.DirectiveList
}

// FragmentsFromDocument adapts the fragment definitions of a parsed document.
func FragmentsFromDocument(defs language.FragmentDefinitionList) []*Fragment {
	out := make([]*Fragment, 0, len(defs))
	for _, def := range defs {
		out = append(out, &Fragment{
			Name:          def.Name,
			TypeCondition: def.TypeCondition,
			SelectionSet:  def.SelectionSet,
			Directives:    def.Directives,
		})
	}
	return out
}

// FragmentSpreadUsage is a fragment spread narrowed to one concrete type.
type FragmentSpreadUsage struct {
	FragmentName string
	ConcreteType string
	// OriginType is the type condition the fragment was declared on.
	OriginType string
	// TypeName is the emitted name of this variant of the fragment shape.
	TypeName   string
	Selections language.SelectionSet
}

// FieldKind tags a FieldRecord.
type FieldKind string

const (
	PrimitiveField        FieldKind = "primitive"
	AliasedPrimitiveField FieldKind = "aliasedPrimitive"
	LinkField             FieldKind = "link"
	TypenameField         FieldKind = "typename"
)

// FieldRecord is one entry of an object shape.
type FieldRecord struct {
	Kind  FieldKind `json:"kind"`
	Name  string    `json:"name"`
	Alias string    `json:"alias,omitempty"`
	// Type is the schema type of the field, wrappers included. Typename
	// records carry String!.
	Type     *schema.TypeRef `json:"type,omitempty"`
	Nullable bool            `json:"nullable,omitempty"`
	Optional bool            `json:"optional,omitempty"`
	// Shape is the nested result of a link field.
	Shape *ResolvedShape `json:"shape,omitempty"`
	// Value is the literal concrete type name of a typename record.
	Value string `json:"value,omitempty"`
}

// ResponseName is the key under which the field appears in a response.
func (f *FieldRecord) ResponseName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// FragmentRef is a named fragment shape intersected with the local fields of a
// ShapeAlternative when fragments are combined rather than inlined.
type FragmentRef struct {
	Fragment string `json:"fragment"`
	TypeName string `json:"typeName"`
	Optional bool   `json:"optional,omitempty"`
}

// ShapeAlternative is the object shape for one concrete type.
type ShapeAlternative struct {
	// TypeName is the concrete object type.
	TypeName string `json:"typeName"`
	// Name is set on the members of a fragment definition's shape.
	Name         string         `json:"name,omitempty"`
	Fields       []*FieldRecord `json:"fields"`
	FragmentRefs []*FragmentRef `json:"fragmentRefs,omitempty"`
	// Named reports that the shape keeps fragment references instead of
	// having every field inlined.
	Named bool `json:"named,omitempty"`
}

// Field returns the record with the given response name, or nil.
func (s *ShapeAlternative) Field(responseName string) *FieldRecord {
	for _, f := range s.Fields {
		if f.ResponseName() == responseName {
			return f
		}
	}
	return nil
}

// ShapeKind tells a single shape from an alternation.
type ShapeKind string

const (
	SingleShape      ShapeKind = "single"
	AlternationShape ShapeKind = "alternation"
)

// ResolvedShape is the result of resolving one selection set.
type ResolvedShape struct {
	ParentType string              `json:"parentType"`
	Kind       ShapeKind           `json:"kind"`
	Members    []*ShapeAlternative `json:"members"`
	// EmptyMember marks the synthetic empty object appended to an alternation
	// when some possible concrete type is not covered by the selections.
	EmptyMember bool `json:"emptyMember,omitempty"`
}

// Single returns the only shape of a non-alternation result, or nil.
func (r *ResolvedShape) Single() *ShapeAlternative {
	if r.Kind != SingleShape || len(r.Members) != 1 {
		return nil
	}
	return r.Members[0]
}

// Member returns the alternative for the given concrete type, or nil.
func (r *ResolvedShape) Member(typeName string) *ShapeAlternative {
	for _, m := range r.Members {
		if m.TypeName == typeName {
			return m
		}
	}
	return nil
}

// InputKind tags an InputShape layer.
type InputKind string

const (
	NamedInput InputKind = "named"
	ListInput  InputKind = "list"
)

// InputShape describes a variable type one wrapper at a time.
type InputShape struct {
	Kind     InputKind       `json:"kind"`
	Nullable bool            `json:"nullable,omitempty"`
	Of       *InputShape     `json:"of,omitempty"`
	Named    string          `json:"named,omitempty"`
	TypeKind schema.TypeKind `json:"typeKind,omitempty"`
	// TypeName is Named after the naming policy; built-in scalars keep their name.
	TypeName string `json:"typeName,omitempty"`
}

// VariableShape is the shape of one operation variable.
type VariableShape struct {
	Name       string      `json:"name"`
	Type       *InputShape `json:"type"`
	Nullable   bool        `json:"nullable,omitempty"`
	Optional   bool        `json:"optional,omitempty"`
	HasDefault bool        `json:"hasDefault,omitempty"`
}
