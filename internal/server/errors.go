package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/resume-pdf/internal/submission"
)

// ErrValidation indicates request parameter validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Faults win over any client sentinel they wrap.
func HTTPStatus(err error) int {
	var (
		fault      *submission.FaultError
		validation *ErrValidation
		invalid    *submission.InvalidDocumentError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &fault):
		return http.StatusInternalServerError
	case errors.As(err, &validation), errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, submission.ErrUnknownTemplate),
		errors.Is(err, submission.ErrUnknownLanguage),
		errors.Is(err, submission.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, submission.ErrAccessDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns the machine-readable code reported with an error
func errorCode(err error) string {
	var (
		fault      *submission.FaultError
		validation *ErrValidation
		invalid    *submission.InvalidDocumentError
		tooLarge   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &fault):
		return "internal_error"
	case errors.As(err, &validation):
		return "invalid_request"
	case errors.As(err, &invalid):
		return "invalid_document"
	case errors.As(err, &tooLarge):
		return "document_too_large"
	case errors.Is(err, submission.ErrUnknownTemplate):
		return "unknown_template"
	case errors.Is(err, submission.ErrUnknownLanguage):
		return "unknown_language"
	case errors.Is(err, submission.ErrNotFound):
		return "not_found"
	case errors.Is(err, submission.ErrAccessDenied):
		return "access_denied"
	default:
		return "internal_error"
	}
}
