package jserror

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField means a collector entry lacks a required key.
	ErrMissingField = errors.New("missing field")

	// ErrInvalidField means a key is present but its value has the wrong type
	// or cannot be parsed.
	ErrInvalidField = errors.New("invalid field")

	// ErrUnexpectedResult means the pump script returned something other than a list.
	ErrUnexpectedResult = errors.New("unexpected script result")
)

// ParseError reports a collector entry that could not be decoded.
type ParseError struct {
	// Index is the entry's position in the drained list, or -1 for a
	// standalone decode.
	Index int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("error record %d: %s: %v", e.Index, e.Field, e.Err)
	}
	return fmt.Sprintf("error record: %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ScriptError wraps a failure returned by the automation session while
// executing a script. The session's error is available through errors.Unwrap.
type ScriptError struct {
	Script string
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("script execution failed: %v", e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
