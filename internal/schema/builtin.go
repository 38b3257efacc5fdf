package schema

func builtinScalar(name, description string) *Type {
	return &Type{Name: name, Kind: TypeKindScalar, Description: description}
}

var (
	stringType  = builtinScalar("String", "The `String` scalar type represents textual data, represented as UTF-8 character sequences.")
	intType     = builtinScalar("Int", "The `Int` scalar type represents non-fractional signed whole numeric values.")
	floatType   = builtinScalar("Float", "The `Float` scalar type represents signed double-precision fractional values.")
	booleanType = builtinScalar("Boolean", "The `Boolean` scalar type represents `true` or `false`.")
	idType      = builtinScalar("ID", "The `ID` scalar type represents a unique identifier, often used to refetch an object or as a key for caching.")
)

// conditionalDirective builds @include / @skip, the only directives that change
// the shape of a selection.
func conditionalDirective(name, description, ifDescription string) *Directive {
	return &Directive{
		Name:        name,
		Description: description,
		Arguments: []*InputValue{
			{Name: "if", Description: ifDescription, Type: NonNullType(NamedType("Boolean"))},
		},
		Locations: []string{"FIELD", "FRAGMENT_SPREAD", "INLINE_FRAGMENT"},
	}
}

var (
	includeDirective = conditionalDirective("include",
		"Directs the executor to include this field or fragment only when the `if` argument is true.",
		"Included when true.")
	skipDirective = conditionalDirective("skip",
		"Directs the executor to skip this field or fragment when the `if` argument is true.",
		"Skipped when true.")
)
