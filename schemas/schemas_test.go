package schemas

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/jonathan/resume-pdf/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeSchema_ValidJSON(t *testing.T) {
	data, err := os.ReadFile("resume.schema.json")
	require.NoError(t, err, "should be able to read schema file")

	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &v), "schema file should be valid JSON")

	assert.Equal(t, "object", v["type"])
	assert.ElementsMatch(t, []interface{}{"person", "lang"}, v["required"])
}

func TestResumeSchema_EmbeddedMatchesFile(t *testing.T) {
	data, err := os.ReadFile("resume.schema.json")
	require.NoError(t, err)
	assert.Equal(t, string(data), Resume)
}

func compileResume(t *testing.T) *schemas.Schema {
	t.Helper()
	s, err := schemas.Compile("resume.schema.json", Resume)
	require.NoError(t, err)
	return s
}

func TestResumeSchema_AcceptsMinimalDocument(t *testing.T) {
	doc := `{"person": {"name": {"first": "Ada", "last": "Lovelace"}, "contact": {"email": "ada@example.com"}}, "lang": "en"}`
	assert.NoError(t, compileResume(t).Validate([]byte(doc)))
}

func TestResumeSchema_RejectsMissingPerson(t *testing.T) {
	err := compileResume(t).Validate([]byte(`{"lang": "en"}`))
	require.Error(t, err)

	var validationErr *schemas.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Errors, 1)
	assert.Equal(t, "person", validationErr.Errors[0].Field)
}

func TestResumeSchema_RejectsWrongTypes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"lang is a number", `{"person": {}, "lang": 7}`},
		{"empty lang", `{"person": {}, "lang": ""}`},
		{"skills not an array", `{"person": {"skills": "go"}, "lang": "en"}`},
		{"skill level not integer", `{"person": {"skills": [{"name": "Go", "level": "high"}]}, "lang": "en"}`},
		{"birth year is text", `{"person": {"birth": {"year": "1815"}}, "lang": "en"}`},
		{"person is a string", `{"person": "Ada", "lang": "en"}`},
		{"unknown top-level field", `{"person": {}, "lang": "en", "theme": "dark"}`},
		{"unknown contact field", `{"person": {"contact": {"fax": "1"}}, "lang": "en"}`},
	}
	s := compileResume(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate([]byte(tt.doc))
			var validationErr *schemas.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}
