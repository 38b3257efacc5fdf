package shape

import (
	"strings"

	language "github.com/hanpama/gqlshape/internal/language"
	schema "github.com/hanpama/gqlshape/internal/schema"
)

// ExpandFragmentSpread returns one usage per possible concrete type of the
// spread fragment's type condition, keyed by concrete type name.
func ExpandFragmentSpread(spread *language.FragmentSpread, sch *schema.Schema, fragments []*Fragment, cfg Config) (map[string]*FragmentSpreadUsage, error) {
	usages, _, _, err := newResolver(sch, fragments, cfg).expand(spread)
	return usages, err
}

func (r *resolver) expand(spread *language.FragmentSpread) (map[string]*FragmentSpreadUsage, *Fragment, *schema.Type, error) {
	frag, ok := r.fragments[spread.Name]
	if !ok {
		return nil, nil, nil, &UnknownFragmentError{Fragment: spread.Name}
	}
	if err := r.checkCycles(frag.Name); err != nil {
		return nil, nil, nil, err
	}
	on, err := r.types.classify(frag.TypeCondition)
	if err != nil {
		return nil, nil, nil, err
	}
	if !on.IsComposite() {
		return nil, nil, nil, &MalformedSelectionError{
			Type:   on.Name,
			Reason: "fragment " + frag.Name + " is declared on a non-composite type",
		}
	}
	possible := r.types.possibleConcreteTypes(on)
	usages := make(map[string]*FragmentSpreadUsage, len(possible))
	for _, concrete := range possible {
		usages[concrete] = &FragmentSpreadUsage{
			FragmentName: frag.Name,
			ConcreteType: concrete,
			OriginType:   on.Name,
			TypeName:     r.fragmentTypeName(frag.Name, concrete, len(possible)),
			Selections:   frag.SelectionSet,
		}
	}
	return usages, frag, on, nil
}

// fragmentTypeName omits the concrete type qualifier when the fragment can
// only ever apply to a single type.
func (r *resolver) fragmentTypeName(fragment, concrete string, possible int) string {
	if possible == 1 {
		return r.cfg.Naming.FragmentTypeName(fragment)
	}
	return r.cfg.Naming.QualifiedFragmentTypeName(fragment, concrete)
}

// checkCycles rejects fragments that spread themselves, directly or through
// nested fields and fragments.
func (r *resolver) checkCycles(name string) error {
	return r.visitFragment(name, nil, map[string]bool{})
}

func (r *resolver) visitFragment(name string, path []string, onPath map[string]bool) error {
	if r.acyclic[name] {
		return nil
	}
	frag, ok := r.fragments[name]
	if !ok {
		// Reported as UnknownFragmentError once the spread is expanded.
		return nil
	}
	path = append(append([]string(nil), path...), name)
	if onPath[name] {
		return &MalformedSelectionError{
			Type:   frag.TypeCondition,
			Reason: "fragment cycle " + strings.Join(path, " -> "),
		}
	}
	onPath[name] = true
	for _, next := range spreadNames(frag.SelectionSet) {
		if err := r.visitFragment(next, path, onPath); err != nil {
			return err
		}
	}
	delete(onPath, name)
	r.acyclic[name] = true
	return nil
}

func spreadNames(selections language.SelectionSet) []string {
	var names []string
	for _, selection := range selections {
		switch sel := selection.(type) {
		case *language.Field:
			names = append(names, spreadNames(sel.SelectionSet)...)
		case *language.InlineFragment:
			names = append(names, spreadNames(sel.SelectionSet)...)
		case *language.FragmentSpread:
			names = append(names, sel.Name)
		}
	}
	return names
}
