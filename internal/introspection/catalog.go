// Package introspection holds the static definitions of the GraphQL
// introspection types and the __schema / __type meta fields. The catalog is
// built once and never mutated, so it can be shared by concurrent resolutions.
package introspection

import (
	"strings"

	schema "github.com/hanpama/gqlshape/internal/schema"
)

var (
	types      = buildTypes()
	metaFields = map[string]*schema.Field{
		"__schema": {
			Name:        "__schema",
			Description: "Access the current type schema of this server.",
			Type:        nonNull(named("__Schema")),
		},
		"__type": {
			Name:        "__type",
			Description: "Request the type information of a single type.",
			Arguments: []*schema.InputValue{
				{Name: "name", Description: "The name of the type to look up.", Type: nonNull(named("String"))},
			},
			Type: named("__Type"),
		},
	}
)

// Lookup returns the introspection type with the given name, or nil.
func Lookup(name string) *schema.Type {
	if !strings.HasPrefix(name, "__") {
		return nil
	}
	return types[name]
}

// MetaField returns the definition of the __schema or __type root meta field.
func MetaField(name string) *schema.Field { return metaFields[name] }

// IsMetaField reports whether name is a root meta field.
func IsMetaField(name string) bool {
	_, ok := metaFields[name]
	return ok
}

// TypenameField is the implicit __typename field available on every composite type.
var TypenameField = &schema.Field{
	Name:        "__typename",
	Description: "The name of the current Object type at runtime.",
	Type:        nonNull(named("String")),
}

func named(name string) *schema.TypeRef                  { return schema.NamedType(name) }
func nonNull(t *schema.TypeRef) *schema.TypeRef          { return schema.NonNullType(t) }
func list(t *schema.TypeRef) *schema.TypeRef             { return schema.ListType(t) }
func nonNullList(name string) *schema.TypeRef            { return nonNull(list(nonNull(named(name)))) }
func field(name string, t *schema.TypeRef) *schema.Field { return schema.NewField(name, "", t) }

func includeDeprecated() *schema.InputValue {
	return schema.NewInputValue("includeDeprecated", "", named("Boolean")).SetDefault(false)
}

func object(name, description string, fields ...*schema.Field) *schema.Type {
	t := schema.NewType(name, schema.TypeKindObject, description)
	for _, f := range fields {
		t.AddField(f)
	}
	return t
}

func enum(name string, values ...string) *schema.Type {
	t := schema.NewType(name, schema.TypeKindEnum, "")
	for _, v := range values {
		t.AddEnumValue(schema.NewEnumValue(v, ""))
	}
	return t
}

func buildTypes() map[string]*schema.Type {
	all := []*schema.Type{
		object("__Schema", "A GraphQL Schema defines the capabilities of a GraphQL server.",
			field("description", named("String")),
			field("types", nonNullList("__Type")),
			field("queryType", nonNull(named("__Type"))),
			field("mutationType", named("__Type")),
			field("subscriptionType", named("__Type")),
			field("directives", nonNullList("__Directive")),
		),
		object("__Type", "The fundamental unit of any GraphQL Schema is the type.",
			field("kind", nonNull(named("__TypeKind"))),
			field("name", named("String")),
			field("description", named("String")),
			field("fields", list(nonNull(named("__Field")))).AddArgument(includeDeprecated()),
			field("interfaces", list(nonNull(named("__Type")))),
			field("possibleTypes", list(nonNull(named("__Type")))),
			field("enumValues", list(nonNull(named("__EnumValue")))).AddArgument(includeDeprecated()),
			field("inputFields", list(nonNull(named("__InputValue")))).AddArgument(includeDeprecated()),
			field("ofType", named("__Type")),
			field("specifiedByURL", named("String")),
			field("isOneOf", named("Boolean")),
		),
		object("__Field", "",
			field("name", nonNull(named("String"))),
			field("description", named("String")),
			field("args", nonNullList("__InputValue")).AddArgument(includeDeprecated()),
			field("type", nonNull(named("__Type"))),
			field("isDeprecated", nonNull(named("Boolean"))),
			field("deprecationReason", named("String")),
		),
		object("__InputValue", "",
			field("name", nonNull(named("String"))),
			field("description", named("String")),
			field("type", nonNull(named("__Type"))),
			field("defaultValue", named("String")),
			field("isDeprecated", nonNull(named("Boolean"))),
			field("deprecationReason", named("String")),
		),
		object("__EnumValue", "",
			field("name", nonNull(named("String"))),
			field("description", named("String")),
			field("isDeprecated", nonNull(named("Boolean"))),
			field("deprecationReason", named("String")),
		),
		object("__Directive", "",
			field("name", nonNull(named("String"))),
			field("description", named("String")),
			field("isRepeatable", nonNull(named("Boolean"))),
			field("locations", nonNullList("__DirectiveLocation")),
			field("args", nonNullList("__InputValue")).AddArgument(includeDeprecated()),
		),
		enum("__TypeKind", "SCALAR", "OBJECT", "INTERFACE", "UNION", "ENUM", "INPUT_OBJECT", "LIST", "NON_NULL"),
		enum("__DirectiveLocation",
			"QUERY", "MUTATION", "SUBSCRIPTION", "FIELD", "FRAGMENT_DEFINITION", "FRAGMENT_SPREAD",
			"INLINE_FRAGMENT", "VARIABLE_DEFINITION", "SCHEMA", "SCALAR", "OBJECT", "FIELD_DEFINITION",
			"ARGUMENT_DEFINITION", "INTERFACE", "UNION", "ENUM", "ENUM_VALUE", "INPUT_OBJECT",
			"INPUT_FIELD_DEFINITION"),
	}
	m := make(map[string]*schema.Type, len(all))
	for _, t := range all {
		m[t.Name] = t
	}
	return m
}
