// Package rendering composes resume markup from templates and converts it to PDF.
package rendering

import (
	"errors"
	"fmt"
)

// ErrNotPDF is reported when a renderer returns bytes without a PDF header.
var ErrNotPDF = errors.New("output is not a PDF")

// Template phases reported by TemplateError
const (
	PhaseParse   = "parse"
	PhaseExecute = "execute"
)

// TemplateError reports template source that failed to parse, or a
// document that could not be bound into it.
type TemplateError struct {
	Template string
	Phase    string
	Cause    error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %q: %s failed: %v", e.Template, e.Phase, e.Cause)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports which stage of the markup-to-PDF conversion failed
type RenderError struct {
	Stage string
	Cause error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error: %s: %v", e.Stage, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
