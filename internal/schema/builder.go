package schema

import (
	"sort"
	"strings"

	language "github.com/hanpama/gqlshape/internal/language"
)

// Load parses and validates SDL sources with gqlparser and converts the result.
func Load(sources ...*language.Source) (*Schema, error) {
	s, err := language.LoadSchema(sources...)
	if err != nil {
		return nil, err
	}
	return BuildFromAST(s), nil
}

// BuildFromSDL is a convenience wrapper around Load for a single source.
func BuildFromSDL(sdl string) (*Schema, error) {
	return Load(&language.Source{Name: "schema.graphql", Input: sdl})
}

// BuildFromAST converts a validated gqlparser schema. Introspection types and
// meta fields are left out; they are served by the introspection catalog.
// Union members and interface implementations keep declaration order.
func BuildFromAST(src *language.ASTSchema) *Schema {
	s := NewSchema("")
	if src.Query != nil {
		s.SetQueryType(src.Query.Name)
	}
	if src.Mutation != nil {
		s.SetMutationType(src.Mutation.Name)
	}
	if src.Subscription != nil {
		s.SetSubscriptionType(src.Subscription.Name)
	}

	for name, def := range src.Types {
		if strings.HasPrefix(name, "__") {
			continue
		}
		var t *Type
		switch def.Kind {
		case language.Object:
			t = buildComposite(def, TypeKindObject)
		case language.Interface:
			t = buildComposite(def, TypeKindInterface)
			for _, impl := range inDeclarationOrder(src.GetPossibleTypes(def)) {
				if impl.Kind == language.Object {
					t.AddPossibleType(impl.Name)
				}
			}
		case language.Union:
			t = NewType(def.Name, TypeKindUnion, def.Description)
			for _, member := range def.Types {
				t.AddPossibleType(member)
			}
		case language.Enum:
			t = buildEnum(def)
		case language.InputObject:
			t = buildInput(def)
		default:
			t = NewType(def.Name, TypeKindScalar, def.Description)
		}
		// Types is filled directly: possible types were already taken from
		// gqlparser in declaration order.
		s.Types[t.Name] = t
	}
	for name, dir := range src.Directives {
		if _, builtin := s.Directives[name]; builtin {
			continue
		}
		s.AddDirective(buildDirective(dir))
	}
	return s
}

// inDeclarationOrder sorts definitions by source name, then position, so the
// result never depends on map iteration inside the parser.
func inDeclarationOrder(defs []*language.Definition) []*language.Definition {
	out := append([]*language.Definition(nil), defs...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Position, out[j].Position
		if a == nil || b == nil {
			return a != nil
		}
		if an, bn := sourceName(a), sourceName(b); an != bn {
			return an < bn
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

func sourceName(p *language.Position) string {
	if p.Src == nil {
		return ""
	}
	return p.Src.Name
}

func buildComposite(def *language.Definition, kind TypeKind) *Type {
	t := NewType(def.Name, kind, def.Description)
	for _, name := range def.Interfaces {
		t.AddInterface(name)
	}
	for _, fd := range def.Fields {
		if strings.HasPrefix(fd.Name, "__") {
			continue
		}
		t.AddField(buildField(fd))
	}
	return t
}

func buildField(def *language.FieldDefinition) *Field {
	f := NewField(def.Name, def.Description, BuildTypeRef(def.Type))
	if reason, ok := deprecation(def.Directives); ok {
		f.Deprecate(reason)
	}
	for _, arg := range def.Arguments {
		f.AddArgument(buildArgument(arg))
	}
	return f
}

func buildArgument(def *language.ArgumentDefinition) *InputValue {
	in := NewInputValue(def.Name, def.Description, BuildTypeRef(def.Type)).
		SetDefault(defaultValue(def.DefaultValue))
	if reason, ok := deprecation(def.Directives); ok {
		in.IsDeprecated = true
		in.DeprecationReason = reason
	}
	return in
}

func buildEnum(def *language.Definition) *Type {
	t := NewType(def.Name, TypeKindEnum, def.Description)
	for _, v := range def.EnumValues {
		e := NewEnumValue(v.Name, v.Description)
		if reason, ok := deprecation(v.Directives); ok {
			e.Deprecate(reason)
		}
		t.AddEnumValue(e)
	}
	return t
}

func buildInput(def *language.Definition) *Type {
	t := NewType(def.Name, TypeKindInputObject, def.Description).
		SetOneOf(def.Directives.ForName("oneOf") != nil)
	for _, fd := range def.Fields {
		in := NewInputValue(fd.Name, fd.Description, BuildTypeRef(fd.Type)).
			SetDefault(defaultValue(fd.DefaultValue))
		t.AddInputField(in)
	}
	return t
}

func buildDirective(def *language.DirectiveDefinition) *Directive {
	d := NewDirective(def.Name, def.Description).SetRepeatable(def.IsRepeatable)
	for _, loc := range def.Locations {
		d.Locations = append(d.Locations, string(loc))
	}
	for _, arg := range def.Arguments {
		d.AddArgument(buildArgument(arg))
	}
	return d
}

// BuildTypeRef converts a gqlparser type expression, e.g. `[ID!]!`.
func BuildTypeRef(t *language.Type) *TypeRef {
	if t == nil {
		return nil
	}
	var ref *TypeRef
	if t.Elem != nil {
		ref = ListType(BuildTypeRef(t.Elem))
	} else {
		ref = NamedType(t.NamedType)
	}
	if t.NonNull {
		ref = NonNullType(ref)
	}
	return ref
}

func deprecation(directives language.DirectiveList) (string, bool) {
	d := directives.ForName("deprecated")
	if d == nil {
		return "", false
	}
	reason := "No longer supported"
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return reason, true
}

func defaultValue(v *language.Value) any {
	if v == nil {
		return nil
	}
	val, err := v.Value(nil)
	if err != nil {
		return v.Raw
	}
	return val
}
