package shape

import language "github.com/hanpama/gqlshape/internal/language"

type partitioned struct {
	fields          []*language.Field
	inlineFragments []*language.InlineFragment
	fragmentSpreads []*language.FragmentSpread
}

// partition splits one selection set by node kind, keeping source order within
// each bucket.
func partition(selections language.SelectionSet) partitioned {
	var p partitioned
	for _, selection := range selections {
		switch sel := selection.(type) {
		case *language.Field:
			p.fields = append(p.fields, sel)
		case *language.InlineFragment:
			p.inlineFragments = append(p.inlineFragments, sel)
		case *language.FragmentSpread:
			p.fragmentSpreads = append(p.fragmentSpreads, sel)
		}
	}
	return p
}

type inclusion int

const (
	included inclusion = iota
	excluded
	conditional
)

// inclusionOf evaluates @skip and @include. Literal arguments are decided
// here; variable arguments make the node conditional.
func inclusionOf(directives language.DirectiveList) inclusion {
	result := included
	for _, d := range []struct {
		name     string
		excludes string
	}{{"skip", "true"}, {"include", "false"}} {
		dir := directives.ForName(d.name)
		if dir == nil {
			continue
		}
		arg := dir.Arguments.ForName("if")
		if arg == nil || arg.Value == nil {
			continue
		}
		switch {
		case arg.Value.Kind == language.Variable:
			result = conditional
		case arg.Value.Raw == d.excludes:
			return excluded
		}
	}
	return result
}
