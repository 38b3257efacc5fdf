package shape

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v3"

	introspection "github.com/hanpama/gqlshape/internal/introspection"
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// fieldAccumulator gathers every occurrence of one response key.
type fieldAccumulator struct {
	name        string
	alias       string
	definition  *schema.Field
	copies      []selectionCopy
	conditional bool
}

// selectionCopy is the sub-selection of one occurrence of a merged field.
type selectionCopy struct {
	selections  language.SelectionSet
	conditional bool
}

func (acc *fieldAccumulator) hasSelections() bool {
	for _, c := range acc.copies {
		if len(c.selections) > 0 {
			return true
		}
	}
	return false
}

// nested returns the copies to collect below the field. Conditions are
// relative to the field, so they are dropped when the field itself is
// optional.
func (acc *fieldAccumulator) nested() []selectionCopy {
	out := make([]selectionCopy, len(acc.copies))
	for i, c := range acc.copies {
		out[i] = selectionCopy{selections: c.selections, conditional: c.conditional && !acc.conditional}
	}
	return out
}

// fieldKey keeps aliased and unaliased fields apart, so an alias equal to
// the name of another selected field does not merge with it.
func fieldKey(name, alias string) string {
	if alias != "" {
		return "alias:" + alias
	}
	return "field:" + name
}

func (r *resolver) buildShape(concrete *schema.Type, entries []bucketEntry) (*ShapeAlternative, error) {
	table := orderedmap.NewOrderedMap[string, *fieldAccumulator]()
	refs := map[string]*FragmentRef{}
	shape := &ShapeAlternative{TypeName: concrete.Name, Fields: []*FieldRecord{}}
	explicitTypename := false

	for _, e := range entries {
		if e.usage != nil {
			if ref, ok := refs[e.usage.TypeName]; ok {
				ref.Optional = ref.Optional && e.conditional
				continue
			}
			ref := &FragmentRef{Fragment: e.usage.FragmentName, TypeName: e.usage.TypeName, Optional: e.conditional}
			refs[ref.TypeName] = ref
			shape.FragmentRefs = append(shape.FragmentRefs, ref)
			continue
		}

		f := e.field
		def, err := r.types.fieldDefinition(concrete, f.Name)
		if err != nil {
			return nil, err
		}
		alias := f.Alias
		if alias == f.Name {
			alias = ""
		}
		key := fieldKey(f.Name, alias)
		if acc, ok := table.Get(key); ok {
			if acc.name != f.Name {
				return nil, &MalformedSelectionError{
					Type:   concrete.Name,
					Reason: fmt.Sprintf("response key %q selects both %q and %q", alias, acc.name, f.Name),
				}
			}
			acc.conditional = acc.conditional && e.conditional
			acc.copies = append(acc.copies, selectionCopy{selections: f.SelectionSet, conditional: e.conditional})
			continue
		}
		if f.Name == introspection.TypenameField.Name && alias == "" {
			explicitTypename = true
		}
		table.Set(key, &fieldAccumulator{
			name:        f.Name,
			alias:       alias,
			definition:  def,
			copies:      []selectionCopy{{selections: f.SelectionSet, conditional: e.conditional}},
			conditional: e.conditional,
		})
	}

	if !explicitTypename && r.wantsTypename(concrete) {
		shape.Fields = append(shape.Fields, &FieldRecord{
			Kind:     TypenameField,
			Name:     introspection.TypenameField.Name,
			Type:     introspection.TypenameField.Type,
			Optional: !r.cfg.NonOptionalTypename,
			Value:    concrete.Name,
		})
	}
	for el := table.Front(); el != nil; el = el.Next() {
		rec, err := r.buildField(concrete, el.Value)
		if err != nil {
			return nil, err
		}
		shape.Fields = append(shape.Fields, rec)
	}
	shape.Named = len(shape.FragmentRefs) > 0
	return shape, nil
}

func (r *resolver) wantsTypename(concrete *schema.Type) bool {
	if !r.cfg.AddTypename && !r.cfg.NonOptionalTypename {
		return false
	}
	return !(r.cfg.SkipTypenameForRoot && r.types.sch.IsRootType(concrete.Name))
}

func (r *resolver) buildField(concrete *schema.Type, acc *fieldAccumulator) (*FieldRecord, error) {
	rec := &FieldRecord{
		Name:     acc.name,
		Alias:    acc.alias,
		Type:     acc.definition.Type,
		Nullable: !acc.definition.Type.IsNonNull(),
		Optional: acc.conditional,
	}
	if acc.conditional && r.cfg.AvoidOptionals == AvoidOptionalsAll {
		rec.Optional = false
		rec.Nullable = true
	}

	if acc.name == introspection.TypenameField.Name {
		if acc.hasSelections() {
			return nil, leafWithSelection(concrete, acc.name)
		}
		rec.Kind = TypenameField
		rec.Value = concrete.Name
		return rec, nil
	}

	named, err := r.types.classify(acc.definition.Type.GetNamedType())
	if err != nil {
		return nil, err
	}
	switch {
	case named.IsLeaf():
		if acc.hasSelections() {
			return nil, leafWithSelection(concrete, acc.name)
		}
		rec.Kind = PrimitiveField
		if acc.alias != "" {
			rec.Kind = AliasedPrimitiveField
		}
	case !acc.hasSelections():
		return nil, &MalformedSelectionError{
			Type:   concrete.Name,
			Reason: fmt.Sprintf("field %q of type %s requires a selection set", acc.name, named.Name),
		}
	default:
		nested, err := r.resolveCopies(named, acc.nested())
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", concrete.Name, rec.ResponseName(), err)
		}
		rec.Kind = LinkField
		rec.Shape = nested
	}
	return rec, nil
}

func leafWithSelection(concrete *schema.Type, field string) error {
	return &MalformedSelectionError{
		Type:   concrete.Name,
		Reason: fmt.Sprintf("field %q is a leaf and cannot have a selection set", field),
	}
}
