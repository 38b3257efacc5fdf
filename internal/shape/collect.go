package shape

import (
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// bucketEntry is either a field or, when fragments are combined, a fragment
// usage that applies to one concrete type.
type bucketEntry struct {
	field       *language.Field
	usage       *FragmentSpreadUsage
	conditional bool
}

// typeBuckets maps a concrete object type to the selections that apply when
// the runtime value has that type.
type typeBuckets map[string][]bucketEntry

func (b typeBuckets) add(typeName string, e bucketEntry) {
	b[typeName] = append(b[typeName], e)
}

// collect distributes selections made at a position typed parent over the
// concrete types in targets. Plain fields act as an anonymous inline fragment
// on parent.
func (r *resolver) collect(parent *schema.Type, targets []string, selections language.SelectionSet, cond bool, buckets typeBuckets) error {
	parts := partition(selections)
	for _, f := range parts.fields {
		inc := inclusionOf(f.Directives)
		if inc == excluded {
			continue
		}
		for _, t := range targets {
			buckets.add(t, bucketEntry{field: f, conditional: cond || inc == conditional})
		}
	}
	if err := r.collectInlineFragments(parent, targets, parts.inlineFragments, cond, buckets); err != nil {
		return err
	}
	for _, spread := range parts.fragmentSpreads {
		if err := r.collectFragmentSpread(parent, targets, spread, cond, buckets); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) collectInlineFragments(parent *schema.Type, targets []string, nodes []*language.InlineFragment, cond bool, buckets typeBuckets) error {
	for _, node := range nodes {
		inc := inclusionOf(node.Directives)
		if inc == excluded {
			continue
		}
		nodeCond := cond || inc == conditional
		if node.TypeCondition == "" {
			if err := r.collect(parent, targets, node.SelectionSet, nodeCond, buckets); err != nil {
				return err
			}
			continue
		}
		condType, err := r.types.classify(node.TypeCondition)
		if err != nil {
			return err
		}
		applicable, err := r.narrow(parent, targets, condType)
		if err != nil {
			return err
		}
		if len(applicable) == 0 {
			continue
		}
		if err := r.collect(condType, applicable, node.SelectionSet, nodeCond, buckets); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) collectFragmentSpread(parent *schema.Type, targets []string, spread *language.FragmentSpread, cond bool, buckets typeBuckets) error {
	inc := inclusionOf(spread.Directives)
	if inc == excluded {
		return nil
	}
	usages, _, on, err := r.expand(spread)
	if err != nil {
		return err
	}
	if !r.types.overlaps(parent, on) {
		return incompatible(parent, on)
	}
	spreadCond := cond || inc == conditional
	for _, t := range targets {
		usage, ok := usages[t]
		if !ok {
			continue
		}
		if r.cfg.combineFragments() {
			buckets.add(t, bucketEntry{usage: usage, conditional: spreadCond})
			continue
		}
		if err := r.collect(on, []string{t}, usage.Selections, spreadCond, buckets); err != nil {
			return err
		}
	}
	return nil
}

// narrow returns the members of targets that an inline fragment on cond
// applies to, given the declared type of its position.
func (r *resolver) narrow(parent *schema.Type, targets []string, cond *schema.Type) ([]string, error) {
	if !cond.IsComposite() {
		return nil, &MalformedSelectionError{Type: cond.Name, Reason: "type condition on a non-composite type"}
	}
	switch parent.Kind {
	case schema.TypeKindObject:
		// The object itself, or an interface or union the object belongs to.
		if !r.types.isPossibleType(cond, parent.Name) {
			return nil, incompatible(parent, cond)
		}
		return targets, nil

	case schema.TypeKindInterface:
		switch {
		case cond.Kind == schema.TypeKindObject:
			if !r.types.isPossibleType(parent, cond.Name) {
				return nil, incompatible(parent, cond)
			}
			return only(targets, cond.Name), nil
		case cond.Name == parent.Name:
			return targets, nil
		default:
			// Another interface, or a union: keep the implementations that
			// are also valid under cond.
			return r.validUnder(parent, targets, cond)
		}

	case schema.TypeKindUnion:
		switch {
		case cond.Kind == schema.TypeKindObject:
			if !parent.HasPossibleType(cond.Name) {
				return nil, incompatible(parent, cond)
			}
			return only(targets, cond.Name), nil
		case cond.Name == parent.Name:
			return targets, nil
		default:
			return r.validUnder(parent, targets, cond)
		}
	}
	return nil, &MalformedSelectionError{Type: parent.Name, Reason: "inline fragment inside a non-composite type"}
}

func (r *resolver) validUnder(parent *schema.Type, targets []string, cond *schema.Type) ([]string, error) {
	if !r.types.overlaps(parent, cond) {
		return nil, incompatible(parent, cond)
	}
	var out []string
	for _, t := range targets {
		if r.types.isPossibleType(cond, t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func only(targets []string, name string) []string {
	for _, t := range targets {
		if t == name {
			return []string{name}
		}
	}
	return nil
}

func incompatible(parent, cond *schema.Type) error {
	return &MalformedSelectionError{
		Type:   parent.Name,
		Reason: "type condition " + cond.Name + " can never apply here",
	}
}
