package schema

import "sort"

// Schema is the read-only type map a resolution runs against. It is built once
// and may be shared by concurrent resolutions.
type Schema struct {
	QueryType        string
	MutationType     string
	SubscriptionType string
	Types            map[string]*Type // All named types keyed by name
	Directives       map[string]*Directive
	Description      string
}

// GetQueryType returns the root query type (may be nil if absent)
func (s *Schema) GetQueryType() *Type { return s.Types[s.QueryType] }

// IsRootType reports whether name is one of the root operation types.
func (s *Schema) IsRootType(name string) bool {
	if name == "" {
		return false
	}
	return name == s.QueryType || name == s.MutationType || name == s.SubscriptionType
}

// Type is a named GraphQL type (object, interface, union, scalar, enum, input)
type Type struct {
	Name          string
	Kind          TypeKind
	Description   string
	Fields        []*Field      // For OBJECT and INTERFACE
	Interfaces    []string      // For OBJECT and INTERFACE (implemented/extended)
	PossibleTypes []string      // For INTERFACE and UNION, in declaration order
	EnumValues    []*EnumValue  // For ENUM
	InputFields   []*InputValue // For INPUT_OBJECT
	OneOf         bool
}

// Field returns the field definition with the given name, or nil.
func (t *Type) Field(name string) *Field {
	for _, f := range t.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Implements reports whether t declares the interface iface.
func (t *Type) Implements(iface string) bool {
	for _, name := range t.Interfaces {
		if name == iface {
			return true
		}
	}
	return false
}

// HasPossibleType reports whether name is listed among t's possible types.
func (t *Type) HasPossibleType(name string) bool {
	for _, pt := range t.PossibleTypes {
		if pt == name {
			return true
		}
	}
	return false
}

// IsLeaf reports whether values of t are serialized directly (scalars and enums).
func (t *Type) IsLeaf() bool { return t.Kind == TypeKindScalar || t.Kind == TypeKindEnum }

// IsAbstract reports whether t is an interface or a union.
func (t *Type) IsAbstract() bool { return t.Kind == TypeKindInterface || t.Kind == TypeKindUnion }

// IsComposite reports whether selections may be made on t.
func (t *Type) IsComposite() bool { return t.Kind == TypeKindObject || t.IsAbstract() }

// Field represents a field on an object or interface
type Field struct {
	Name              string
	Description       string
	Type              *TypeRef
	Arguments         []*InputValue
	IsDeprecated      bool
	DeprecationReason string
}

// TypeKind represents the kind of GraphQL type
type TypeKind string

const (
	TypeKindScalar      TypeKind = "SCALAR"
	TypeKindObject      TypeKind = "OBJECT"
	TypeKindInterface   TypeKind = "INTERFACE"
	TypeKindUnion       TypeKind = "UNION"
	TypeKindEnum        TypeKind = "ENUM"
	TypeKindInputObject TypeKind = "INPUT_OBJECT"
)

// TypeRef represents a reference to a type (can be wrapped)
type TypeRef struct {
	Kind   TypeRefKind `json:"kind"`
	OfType *TypeRef    `json:"ofType,omitempty"` // For List and NonNull
	Named  string      `json:"named,omitempty"`  // For named types
}

type TypeRefKind string

const (
	TypeRefKindNamed   TypeRefKind = "NAMED"
	TypeRefKindList    TypeRefKind = "LIST"
	TypeRefKindNonNull TypeRefKind = "NON_NULL"
)

// Helper functions for TypeRef
func (t *TypeRef) IsNonNull() bool {
	return t != nil && t.Kind == TypeRefKindNonNull
}

func (t *TypeRef) IsList() bool {
	if t.Kind == TypeRefKindList {
		return true
	}
	if t.Kind == TypeRefKindNonNull && t.OfType != nil {
		return t.OfType.Kind == TypeRefKindList
	}
	return false
}

func (t *TypeRef) GetNamedType() string {
	current := t
	for current != nil {
		if current.Named != "" {
			return current.Named
		}
		current = current.OfType
	}
	return ""
}

// String renders the reference in SDL notation, e.g. "[ID!]!".
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	switch t.Kind {
	case TypeRefKindNonNull:
		return t.OfType.String() + "!"
	case TypeRefKindList:
		return "[" + t.OfType.String() + "]"
	}
	return t.Named
}

type EnumValue struct {
	Name              string
	Description       string
	IsDeprecated      bool
	DeprecationReason string
}

type InputValue struct {
	Name              string
	Description       string
	Type              *TypeRef
	DefaultValue      any
	IsDeprecated      bool
	DeprecationReason string
}

type Directive struct {
	Name         string
	Description  string
	Locations    []string
	Arguments    []*InputValue
	IsRepeatable bool
}

func NonNullType(t *TypeRef) *TypeRef { return &TypeRef{Kind: TypeRefKindNonNull, OfType: t} }
func ListType(t *TypeRef) *TypeRef    { return &TypeRef{Kind: TypeRefKindList, OfType: t} }
func NamedType(name string) *TypeRef  { return &TypeRef{Kind: TypeRefKindNamed, Named: name} }

// NewSchema returns an empty schema with the built-in scalars and directives.
func NewSchema(description string) *Schema {
	s := &Schema{
		Types:       make(map[string]*Type),
		Directives:  make(map[string]*Directive),
		Description: description,
	}
	s.AddType(stringType).
		AddType(intType).
		AddType(floatType).
		AddType(booleanType).
		AddType(idType)
	s.AddDirective(includeDirective).
		AddDirective(skipDirective)
	return s
}

func (s *Schema) SetQueryType(name string) *Schema        { s.QueryType = name; return s }
func (s *Schema) SetMutationType(name string) *Schema     { s.MutationType = name; return s }
func (s *Schema) SetSubscriptionType(name string) *Schema { s.SubscriptionType = name; return s }

// AddType registers t under its name and links interface possible types in
// both directions, so types may be added in any order.
func (s *Schema) AddType(t *Type) *Schema {
	s.Types[t.Name] = t
	switch t.Kind {
	case TypeKindObject:
		for _, iface := range t.Interfaces {
			if it, ok := s.Types[iface]; ok && it.Kind == TypeKindInterface {
				it.AddPossibleType(t.Name)
			}
		}
	case TypeKindInterface:
		names := make([]string, 0, len(s.Types))
		for name, other := range s.Types {
			if other.Kind == TypeKindObject && other.Implements(t.Name) {
				names = append(names, name)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			t.AddPossibleType(name)
		}
	}
	return s
}

func (s *Schema) AddDirective(d *Directive) *Schema {
	s.Directives[d.Name] = d
	return s
}

func NewType(name string, kind TypeKind, description string) *Type {
	return &Type{Name: name, Kind: kind, Description: description}
}

func (t *Type) AddField(f *Field) *Type {
	t.Fields = append(t.Fields, f)
	return t
}

func (t *Type) AddInterface(name string) *Type {
	t.Interfaces = append(t.Interfaces, name)
	return t
}

func (t *Type) AddPossibleType(name string) *Type {
	if !t.HasPossibleType(name) {
		t.PossibleTypes = append(t.PossibleTypes, name)
	}
	return t
}

func (t *Type) AddEnumValue(v *EnumValue) *Type {
	t.EnumValues = append(t.EnumValues, v)
	return t
}

func (t *Type) AddInputField(v *InputValue) *Type {
	t.InputFields = append(t.InputFields, v)
	return t
}

func (t *Type) SetOneOf(oneOf bool) *Type {
	t.OneOf = oneOf
	return t
}

func NewField(name, description string, typ *TypeRef) *Field {
	return &Field{Name: name, Description: description, Type: typ}
}

func (f *Field) AddArgument(v *InputValue) *Field {
	f.Arguments = append(f.Arguments, v)
	return f
}

func (f *Field) Deprecate(reason string) *Field {
	f.IsDeprecated = true
	f.DeprecationReason = reason
	return f
}

func NewEnumValue(name, description string) *EnumValue {
	return &EnumValue{Name: name, Description: description}
}

func (e *EnumValue) Deprecate(reason string) *EnumValue {
	e.IsDeprecated = true
	e.DeprecationReason = reason
	return e
}

func NewInputValue(name, description string, typ *TypeRef) *InputValue {
	return &InputValue{Name: name, Description: description, Type: typ}
}

func (v *InputValue) SetDefault(value any) *InputValue {
	v.DefaultValue = value
	return v
}

func NewDirective(name, description string) *Directive {
	return &Directive{Name: name, Description: description}
}

func (d *Directive) AddArgument(v *InputValue) *Directive {
	d.Arguments = append(d.Arguments, v)
	return d
}

func (d *Directive) SetRepeatable(repeatable bool) *Directive {
	d.IsRepeatable = repeatable
	return d
}
