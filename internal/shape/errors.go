package shape

import "fmt"

// UnknownTypeError reports a type name that is absent from the schema.
type UnknownTypeError struct {
	Type string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %q", e.Type)
}

// UnknownFragmentError reports a spread of a fragment that was not loaded.
type UnknownFragmentError struct {
	Fragment string
}

func (e *UnknownFragmentError) Error() string {
	return fmt.Sprintf("unknown fragment %q", e.Fragment)
}

// FieldNotFoundError reports a selected field that the concrete type lacks.
type FieldNotFoundError struct {
	Type  string
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("field %q not found on type %q", e.Field, e.Type)
}

// MalformedSelectionError reports a structurally invalid selection, such as a
// type condition that can never match its position.
type MalformedSelectionError struct {
	Type   string
	Reason string
}

func (e *MalformedSelectionError) Error() string {
	return fmt.Sprintf("malformed selection on %q: %s", e.Type, e.Reason)
}
