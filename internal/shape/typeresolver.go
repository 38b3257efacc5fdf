package shape

import (
	introspection "github.com/hanpama/gqlshape/internal/introspection"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// Classify returns the schema type named typeName. Introspection types resolve
// even when the schema does not list them.
func Classify(sch *schema.Schema, typeName string) (*schema.Type, error) {
	if t, ok := sch.Types[typeName]; ok {
		return t, nil
	}
	if t := introspection.Lookup(typeName); t != nil {
		return t, nil
	}
	return nil, &UnknownTypeError{Type: typeName}
}

// PossibleConcreteTypes returns the object types a value of t can have at
// runtime, in schema order.
func PossibleConcreteTypes(sch *schema.Schema, t *schema.Type) []string {
	switch t.Kind {
	case schema.TypeKindObject:
		return []string{t.Name}
	case schema.TypeKindInterface, schema.TypeKindUnion:
		return append([]string(nil), t.PossibleTypes...)
	}
	return nil
}

type typeResolver struct {
	sch *schema.Schema
}

func (r typeResolver) classify(name string) (*schema.Type, error) { return Classify(r.sch, name) }

func (r typeResolver) possibleConcreteTypes(t *schema.Type) []string {
	return PossibleConcreteTypes(r.sch, t)
}

// isPossibleType reports whether an object named objectName is a valid runtime
// value for a position typed t.
func (r typeResolver) isPossibleType(t *schema.Type, objectName string) bool {
	switch t.Kind {
	case schema.TypeKindObject:
		return t.Name == objectName
	case schema.TypeKindUnion:
		return t.HasPossibleType(objectName)
	case schema.TypeKindInterface:
		if t.HasPossibleType(objectName) {
			return true
		}
		obj, ok := r.sch.Types[objectName]
		return ok && r.implements(obj, t.Name, map[string]bool{})
	}
	return false
}

// implements walks declared interfaces transitively, so an object declaring
// only a sub-interface still satisfies the super-interface.
func (r typeResolver) implements(t *schema.Type, iface string, seen map[string]bool) bool {
	if seen[t.Name] {
		return false
	}
	seen[t.Name] = true
	for _, name := range t.Interfaces {
		if name == iface {
			return true
		}
		if next, ok := r.sch.Types[name]; ok && r.implements(next, iface, seen) {
			return true
		}
	}
	return false
}

// overlaps reports whether positions typed a and b share a concrete type.
func (r typeResolver) overlaps(a, b *schema.Type) bool {
	for _, name := range r.possibleConcreteTypes(a) {
		if r.isPossibleType(b, name) {
			return true
		}
	}
	return false
}

// fieldDefinition looks up name on t. The __schema and __type meta fields are
// accepted on every root operation type.
func (r typeResolver) fieldDefinition(t *schema.Type, name string) (*schema.Field, error) {
	if name == introspection.TypenameField.Name {
		return introspection.TypenameField, nil
	}
	if f := t.Field(name); f != nil {
		return f, nil
	}
	if introspection.IsMetaField(name) && r.sch.IsRootType(t.Name) {
		return introspection.MetaField(name), nil
	}
	return nil, &FieldNotFoundError{Type: t.Name, Field: name}
}
