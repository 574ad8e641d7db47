package command

import "fmt"

// TokenizeError is returned when the raw command line cannot be split into
// tokens: an unterminated quoted value, or a '=' with no key in front of it.
type TokenizeError struct {
	Pos    int // byte offset into the raw line
	Reason string
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("tokenize error at position %d: %s", e.Pos, e.Reason)
}

// UnknownCommandError is returned when the verb phrase matches no pattern.
type UnknownCommandError struct {
	Verb string
	Raw  string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q. Try: new tax invoice, new normal invoice, search invoice, open invoice, duplicate invoice", e.Verb)
}

// MissingParameterError is returned when a command-specific required field
// is absent after alias resolution.
type MissingParameterError struct {
	Field string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Field)
}

// InvalidValueError is returned when a parameter value fails coercion.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", e.Value, e.Field, e.Reason)
}
