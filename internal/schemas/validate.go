// Package schemas validates submitted documents against JSON Schemas.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// RootField names the document itself in a FieldError.
const RootField = "(root)"

// FieldError is one schema violation. Field is a dotted path such as
// "person.skills.0.level".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violation found in a document
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s: %s\n", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// Stages reported by SchemaLoadError
const (
	StageCompile      = "compile"
	StageLoadDocument = "load document"
)

// SchemaLoadError means the schema or the document could not be loaded, as
// opposed to the document being loaded and found invalid.
type SchemaLoadError struct {
	Schema string
	Stage  string
	Cause  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("schema %s: %s: %v", e.Schema, e.Stage, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

// Schema is a compiled JSON Schema. It is safe for concurrent use.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile parses schema content once so request paths do not re-parse it.
func Compile(name, content string) (*Schema, error) {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Stage: StageCompile, Cause: err}
	}
	return &Schema{name: name, schema: s}, nil
}

// Name returns the name the schema was compiled with.
func (s *Schema) Name() string {
	return s.name
}

// Validate checks a JSON document. It returns *ValidationError when the
// document does not match and *SchemaLoadError when it is not JSON.
func (s *Schema) Validate(document []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(document))
	if err != nil {
		return &SchemaLoadError{Schema: s.name, Stage: StageLoadDocument, Cause: err}
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   fieldPath(desc),
			Message: desc.Description(),
		})
	}
	return verr
}

// fieldPath points "required" and unknown-property violations at the
// property itself rather than at its parent object.
func fieldPath(desc gojsonschema.ResultError) string {
	field := desc.Field()
	if field == RootField {
		field = ""
	}
	if t := desc.Type(); t == "required" || t == "additional_property_not_allowed" {
		if prop, ok := desc.Details()["property"].(string); ok && prop != "" {
			if field == "" {
				return prop
			}
			return field + "." + prop
		}
	}
	if field == "" {
		return RootField
	}
	return field
}
