package sia

import (
	"fmt"
	"strings"
)

// ParseError reports a raw parameter value that does not conform to its
// field's grammar. Field and Value are kept so the HTTP layer can point at
// the exact offending input.
type ParseError struct {
	Field string
	Value string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("error in query %s %q: %s", e.Field, e.Value, e.Msg)
	}
	return fmt.Sprintf("error in query %s: %s", e.Field, e.Msg)
}

// ValidationError reports a structurally well-formed value that violates a
// domain bound (coordinate out of range, too few polygon vertices, negative
// MAXREC).
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("error in query %s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// ParamErrors collects one error per failing field/value so a single request
// can report every bad parameter at once.
type ParamErrors []error

func (e ParamErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, ", ")
}

// Unwrap exposes the individual errors to errors.Is/As.
func (e ParamErrors) Unwrap() []error { return e }
