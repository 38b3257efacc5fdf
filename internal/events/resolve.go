package events

import "time"

// DefinitionKind names what a resolved definition is: an operation keyword
// ("query", "mutation", "subscription") or "fragment".
type DefinitionKind string

const FragmentDefinition DefinitionKind = "fragment"

// DocumentStart is emitted before the definitions of a document are resolved.
type DocumentStart struct {
	Source      string
	Definitions int
}

// DocumentFinish is emitted once every definition has finished or the first
// failure stopped the batch.
type DocumentFinish struct {
	Source   string
	Err      error
	Duration time.Duration
}

// ResolveStart is emitted before one definition is resolved. Index is the
// position of the definition in its document, operations first; it tells
// apart definitions that share a name.
type ResolveStart struct {
	Source     string
	Index      int
	Definition string
	Kind       DefinitionKind
}

// ResolveFinish is emitted after one definition is resolved.
type ResolveFinish struct {
	Source     string
	Index      int
	Definition string
	Kind       DefinitionKind
	// Members is the number of top-level shape members produced.
	Members  int
	Err      error
	Duration time.Duration
}
