// Package parsing turns untrusted resume submissions into the typed resume model.
package parsing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jonathan/resume-pdf/internal/schemas"
	"github.com/jonathan/resume-pdf/internal/types"
	schemafiles "github.com/jonathan/resume-pdf/schemas"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

var (
	resumeSchemaOnce sync.Once
	resumeSchema     *schemas.Schema
	resumeSchemaErr  error
)

// ResumeSchema returns the compiled resume schema, compiling it on first use.
func ResumeSchema() (*schemas.Schema, error) {
	resumeSchemaOnce.Do(func() {
		resumeSchema, resumeSchemaErr = schemas.Compile("resume.schema.json", schemafiles.Resume)
	})
	return resumeSchema, resumeSchemaErr
}

// ParseResume decodes and validates a submitted resume document.
//
// The input is read leniently (JSON5: unquoted keys, single quotes, trailing
// commas and comments are accepted) because the browser editor is edited by
// hand. The decoded value is then checked against the resume schema.
// Returns *ParseError for unreadable input and *schemas.ValidationError for
// a document of the wrong shape. The language identifier is not checked
// against any catalog here.
func ParseResume(raw []byte) (*types.ResumeDocument, error) {
	canonical, err := Canonicalize(raw)
	if err != nil {
		return nil, err
	}

	schema, err := ResumeSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(canonical); err != nil {
		return nil, err
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal(canonical, &doc); err != nil {
		return nil, &ParseError{
			Reason: "document does not match resume model",
			Cause:  err,
		}
	}
	return &doc, nil
}

// Canonicalize reads lenient JSON5 input and re-encodes it as strict JSON.
func Canonicalize(raw []byte) ([]byte, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ParseError{Cause: ErrEmptyDocument}
	}

	var v interface{}
	if err := json5.Unmarshal(raw, &v); err != nil {
		return nil, &ParseError{
			Reason: "invalid JSON",
			Cause:  err,
		}
	}

	if exceedsDepth(v, MaxDepth) {
		return nil, &ParseError{Cause: ErrTooDeep}
	}

	canonical, err := json.Marshal(v)
	if err != nil {
		// NaN and Infinity are valid JSON5 but have no JSON encoding
		return nil, &ParseError{
			Reason: fmt.Sprintf("unsupported value of type %T", v),
			Cause:  err,
		}
	}
	return canonical, nil
}

// exceedsDepth reports whether v nests objects or arrays more than limit
// levels deep, counting v itself. It stops descending once the limit is hit.
func exceedsDepth(v interface{}, limit int) bool {
	switch t := v.(type) {
	case map[string]interface{}:
		if limit == 0 {
			return true
		}
		for _, child := range t {
			if exceedsDepth(child, limit-1) {
				return true
			}
		}
	case []interface{}:
		if limit == 0 {
			return true
		}
		for _, child := range t {
			if exceedsDepth(child, limit-1) {
				return true
			}
		}
	}
	return false
}
