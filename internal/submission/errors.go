package submission

import (
	"errors"
	"fmt"

	"github.com/jonathan/resume-pdf/internal/schemas"
)

var (
	// ErrUnknownTemplate is returned when a submission names a template the
	// catalog does not contain.
	ErrUnknownTemplate = errors.New("unknown template")
	// ErrUnknownLanguage is returned when a document's lang field names a
	// language the catalog does not contain.
	ErrUnknownLanguage = errors.New("unknown language")
	// ErrNotFound is returned when a submission never existed or has expired.
	ErrNotFound = errors.New("resume not found or expired")
	// ErrAccessDenied is returned when the presented token does not match.
	ErrAccessDenied = errors.New("access denied")
)

// InvalidDocumentError is returned when submitted text is not a readable
// resume document.
type InvalidDocumentError struct {
	Cause error
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("invalid resume document: %v", e.Cause)
}

func (e *InvalidDocumentError) Unwrap() error {
	return e.Cause
}

// FieldErrors returns per-field schema violations, if the document failed
// schema validation.
func (e *InvalidDocumentError) FieldErrors() []schemas.FieldError {
	var ve *schemas.ValidationError
	if errors.As(e.Cause, &ve) {
		return ve.Errors
	}
	return nil
}

// FaultError is an internal failure the client cannot correct.
type FaultError struct {
	Op    string
	Cause error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Cause)
}

func (e *FaultError) Unwrap() error {
	return e.Cause
}
