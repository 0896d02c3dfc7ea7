package rendering

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\n...")))
	assert.False(t, IsPDF([]byte("<html>")))
	assert.False(t, IsPDF(nil))
}

func TestRenderError_Unwrap(t *testing.T) {
	cause := errors.New("chrome crashed")
	err := &RenderError{Stage: "print to pdf", Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "render error: print to pdf: chrome crashed", err.Error())
	assert.ErrorIs(t, &RenderError{Stage: "print to pdf", Cause: ErrNotPDF}, ErrNotPDF)
}

func TestTemplateError_Unwrap(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &TemplateError{Template: "material-blue", Phase: PhaseParse, Cause: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `template "material-blue": parse failed: unexpected EOF`, err.Error())
}
