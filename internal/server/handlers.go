package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-pdf/internal/schemas"
	"github.com/jonathan/resume-pdf/internal/server/middleware"
	"github.com/jonathan/resume-pdf/internal/submission"
)

// Form fields posted by the editor pages
const (
	fieldResumeJSON = "resumejson"
	fieldTemplate   = "templateslug"
)

// ErrorResponse is the body of every JSON error reply
type ErrorResponse struct {
	Error   string               `json:"error"`
	Message string               `json:"message"`
	Details []schemas.FieldError `json:"details,omitempty"`
}

// PageData is the value editor pages are executed against
type PageData struct {
	Templates     []string
	Languages     []string
	DefaultResume string
	Retention     string
}

// handleUpload stores a submitted resume and redirects to its PDF
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, r, err)
			return
		}
		s.errorResponse(w, r, &ErrValidation{Field: "form", Message: "request body is not a valid form"})
		return
	}

	receipt, err := s.service.Submit(r.Context(), []byte(r.PostForm.Get(fieldResumeJSON)), r.PostForm.Get(fieldTemplate))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	q := url.Values{}
	q.Set("id", strconv.FormatInt(receipt.ID, 10))
	q.Set("token", receipt.Token)
	http.Redirect(w, r, "/resume?"+q.Encode(), http.StatusSeeOther)
}

// handleResume renders a stored resume for the holder of its token
func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	id, err := strconv.ParseInt(query.Get("id"), 10, 64)
	if err != nil || id <= 0 {
		s.errorResponse(w, r, &ErrValidation{Field: "id", Message: "must be a positive integer"})
		return
	}

	doc, err := s.service.Retrieve(r.Context(), id, query.Get("token"), middleware.ClientIP(r))
	if err != nil {
		s.errorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="resume-%d.pdf"`, doc.ID))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Bytes)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Bytes); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write PDF response")
	}
}

// handlePage serves one of the editor pages
func (s *Server) handlePage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl, ok := s.catalog.Page(name)
		if !ok {
			http.NotFound(w, r)
			return
		}

		data := PageData{
			Templates:     s.catalog.ListTemplates(),
			Languages:     s.catalog.ListLanguages(),
			DefaultResume: string(s.catalog.DefaultResume()),
			Retention:     s.service.Retention().String(),
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			s.errorResponse(w, r, fmt.Errorf("render page %s: %w", name, err))
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	resp := ErrorResponse{
		Error:   errorCode(err),
		Message: err.Error(),
	}

	var invalid *submission.InvalidDocumentError
	if errors.As(err, &invalid) {
		resp.Details = invalid.FieldErrors()
	}
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		resp.Message = "internal server error"
	}

	s.jsonResponse(w, r, status, resp)
}
