package shape

import (
	"fmt"

	language "github.com/hanpama/gqlshape/internal/language"
	naming "github.com/hanpama/gqlshape/internal/naming"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// ResolveVariables translates operation variable definitions into input
// shapes, in declaration order.
func ResolveVariables(defs language.VariableDefinitionList, sch *schema.Schema, cfg Config) ([]*VariableShape, error) {
	types := typeResolver{sch: sch}
	out := make([]*VariableShape, 0, len(defs))
	for _, def := range defs {
		in, err := inputShape(types, def.Type, cfg.Naming)
		if err != nil {
			return nil, fmt.Errorf("variable $%s: %w", def.Variable, err)
		}
		hasDefault := def.DefaultValue != nil
		out = append(out, &VariableShape{
			Name:       def.Variable,
			Type:       in,
			Nullable:   !def.Type.NonNull,
			Optional:   variableOptional(def.Type.NonNull, hasDefault, cfg.AvoidOptionals),
			HasDefault: hasDefault,
		})
	}
	return out, nil
}

func variableOptional(nonNull, hasDefault bool, policy AvoidOptionals) bool {
	switch policy {
	case AvoidOptionalsInputs, AvoidOptionalsAll:
		return false
	case AvoidOptionalsDefaultValue:
		return !nonNull && !hasDefault
	}
	return !nonNull || hasDefault
}

func inputShape(types typeResolver, t *language.Type, policy naming.Policy) (*InputShape, error) {
	if t.Elem != nil {
		elem, err := inputShape(types, t.Elem, policy)
		if err != nil {
			return nil, err
		}
		return &InputShape{Kind: ListInput, Nullable: !t.NonNull, Of: elem}, nil
	}
	named, err := types.classify(t.NamedType)
	if err != nil {
		return nil, err
	}
	if named.IsComposite() {
		return nil, &MalformedSelectionError{Type: named.Name, Reason: "variables must have an input type"}
	}
	return &InputShape{
		Kind:     NamedInput,
		Nullable: !t.NonNull,
		Named:    named.Name,
		TypeKind: named.Kind,
		TypeName: inputTypeName(named, policy),
	}, nil
}

var builtinScalars = map[string]bool{"String": true, "Int": true, "Float": true, "Boolean": true, "ID": true}

func inputTypeName(t *schema.Type, policy naming.Policy) string {
	if builtinScalars[t.Name] {
		return t.Name
	}
	return policy.TypeName(t.Name)
}
