package document

import (
	"fmt"

	language "github.com/hanpama/gqlshape/internal/language"
)

// DefinitionError locates a resolution failure in its document.
type DefinitionError struct {
	Source     string
	Definition string
	Position   *language.Position
	Err        error
}

func (e *DefinitionError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source, e.Position.Line, e.Position.Column, e.Definition, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Definition, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }
