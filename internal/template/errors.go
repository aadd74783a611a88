package template

import (
	"fmt"
	"strings"
)

// ParseError reports a syntax error in a template source string. Pos is the
// byte offset where the problem was detected.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at position %d", e.Msg, e.Pos)
}

// newParseErrorf creates a parse error with formatting.
func newParseErrorf(pos int, format string, args ...any) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// MissingVariableError reports a required variable absent from the value
// mapping at resolve time.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("missing required variable: %s", e.Name)
}

// ConstraintError reports a value rejected by a strict options pipeline.
type ConstraintError struct {
	Value   string
	Allowed []string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("invalid value '%s'. Must be one of: %s", e.Value, strings.Join(e.Allowed, ", "))
}
