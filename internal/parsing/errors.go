package parsing

import (
	"errors"
	"fmt"
)

// MaxDepth is the deepest object/array nesting a document may use. The
// resume model itself needs four levels.
const MaxDepth = 32

var (
	// ErrEmptyDocument is the cause of a ParseError for blank input.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrTooDeep is the cause of a ParseError for input nested past MaxDepth.
	ErrTooDeep = fmt.Errorf("document nests deeper than %d levels", MaxDepth)
)

// ParseError reports a submission that could not be read as a document at
// all. Schema violations are reported separately as *schemas.ValidationError.
type ParseError struct {
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("unreadable document: %v", e.Cause)
	}
	return fmt.Sprintf("unreadable document: %s: %v", e.Reason, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
