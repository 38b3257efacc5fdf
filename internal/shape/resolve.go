package shape

import (
	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

type resolver struct {
	types     typeResolver
	fragments map[string]*Fragment
	cfg       Config
	// acyclic holds fragments already walked by the cycle check.
	acyclic map[string]bool
}

func newResolver(sch *schema.Schema, fragments []*Fragment, cfg Config) *resolver {
	r := &resolver{
		types:     typeResolver{sch: sch},
		fragments: make(map[string]*Fragment, len(fragments)),
		cfg:       cfg,
		acyclic:   map[string]bool{},
	}
	for _, f := range fragments {
		if _, dup := r.fragments[f.Name]; !dup {
			r.fragments[f.Name] = f
		}
	}
	return r
}

// ResolveSelectionSet computes the shape of selections made at a position of
// type parent. The result is a single shape when parent has one possible
// concrete type and an alternation otherwise.
func ResolveSelectionSet(parent *schema.Type, selections language.SelectionSet, sch *schema.Schema, fragments []*Fragment, cfg Config) (*ResolvedShape, error) {
	return newResolver(sch, fragments, cfg).resolveSelectionSet(parent, selections)
}

// ResolveOperation resolves the selection set of op against its root type.
func ResolveOperation(op *language.OperationDefinition, sch *schema.Schema, fragments []*Fragment, cfg Config) (*ResolvedShape, error) {
	root, err := RootType(sch, op.Operation)
	if err != nil {
		return nil, err
	}
	return ResolveSelectionSet(root, op.SelectionSet, sch, fragments, cfg)
}

// ResolveFragment resolves a fragment definition on its own type condition
// and names each member after the fragment.
func ResolveFragment(name string, sch *schema.Schema, fragments []*Fragment, cfg Config) (*ResolvedShape, error) {
	r := newResolver(sch, fragments, cfg)
	frag, ok := r.fragments[name]
	if !ok {
		return nil, &UnknownFragmentError{Fragment: name}
	}
	if err := r.checkCycles(name); err != nil {
		return nil, err
	}
	on, err := r.types.classify(frag.TypeCondition)
	if err != nil {
		return nil, err
	}
	shape, err := r.resolveSelectionSet(on, frag.SelectionSet)
	if err != nil {
		return nil, err
	}
	possible := len(r.types.possibleConcreteTypes(on))
	for _, m := range shape.Members {
		m.Name = r.fragmentTypeName(name, m.TypeName, possible)
	}
	return shape, nil
}

// RootType returns the schema type an operation of the given kind selects from.
func RootType(sch *schema.Schema, op language.Operation) (*schema.Type, error) {
	var name string
	switch op {
	case language.Query, "":
		name = sch.QueryType
	case language.Mutation:
		name = sch.MutationType
	case language.Subscription:
		name = sch.SubscriptionType
	}
	if name == "" {
		return nil, &MalformedSelectionError{Type: string(op), Reason: "schema defines no root type for this operation"}
	}
	return Classify(sch, name)
}

func (r *resolver) resolveSelectionSet(parent *schema.Type, selections language.SelectionSet) (*ResolvedShape, error) {
	return r.resolveCopies(parent, []selectionCopy{{selections: selections}})
}

// resolveCopies resolves the merged sub-selections of a field, each copy
// collected under its own condition.
func (r *resolver) resolveCopies(parent *schema.Type, copies []selectionCopy) (*ResolvedShape, error) {
	if !parent.IsComposite() {
		return nil, &MalformedSelectionError{Type: parent.Name, Reason: "selection set on a non-composite type"}
	}
	possible := r.types.possibleConcreteTypes(parent)
	buckets := make(typeBuckets, len(possible))
	empty := true
	for _, c := range copies {
		if len(c.selections) > 0 {
			empty = false
		}
		if err := r.collect(parent, possible, c.selections, c.conditional, buckets); err != nil {
			return nil, err
		}
	}

	result := &ResolvedShape{ParentType: parent.Name, Members: []*ShapeAlternative{}}
	if len(possible) == 1 {
		concrete, err := r.types.classify(possible[0])
		if err != nil {
			return nil, err
		}
		shape, err := r.buildShape(concrete, buckets[possible[0]])
		if err != nil {
			return nil, err
		}
		result.Kind = SingleShape
		result.Members = append(result.Members, shape)
		return result, nil
	}

	result.Kind = AlternationShape
	uncovered := empty || len(possible) == 0
	for _, name := range possible {
		entries := buckets[name]
		if len(entries) == 0 {
			uncovered = true
			continue
		}
		concrete, err := r.types.classify(name)
		if err != nil {
			return nil, err
		}
		shape, err := r.buildShape(concrete, entries)
		if err != nil {
			return nil, err
		}
		result.Members = append(result.Members, shape)
	}
	result.EmptyMember = uncovered
	return result, nil
}
