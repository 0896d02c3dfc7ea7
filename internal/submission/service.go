// Package submission accepts resume documents and turns stored submissions
// back into rendered PDFs for holders of the matching token.
package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/resume-pdf/internal/catalog"
	"github.com/jonathan/resume-pdf/internal/logging"
	"github.com/jonathan/resume-pdf/internal/parsing"
	"github.com/jonathan/resume-pdf/internal/rendering"
	"github.com/jonathan/resume-pdf/internal/schemas"
	"github.com/jonathan/resume-pdf/internal/store"
	"github.com/jonathan/resume-pdf/internal/token"
	"github.com/jonathan/resume-pdf/internal/types"
)

// State is the lifecycle position of a submission as seen by a request
type State string

const (
	StateSubmitted     State = "submitted"
	StatePendingRender State = "pending_render"
	StateRendered      State = "rendered"
	StateExpired       State = "expired"
	StateTokenRejected State = "token_rejected"
	StateNotFound      State = "not_found"
)

// Defaults applied when Config leaves a field zero
const (
	DefaultRetention     = 10 * time.Minute
	DefaultRenderTimeout = 60 * time.Second
)

// Config holds retrieval tuning
type Config struct {
	// Retention is how long a submission stays retrievable.
	Retention time.Duration
	// RenderTimeout bounds a single compose and render.
	RenderTimeout time.Duration
}

// Deps are the collaborators a Service needs
type Deps struct {
	Store    store.Store
	Catalog  *catalog.Catalog
	Renderer rendering.Renderer
	Tokens   *token.Issuer
	Logger   zerolog.Logger
}

// Receipt is what a client gets back for a stored submission
type Receipt struct {
	ID    int64
	Token string
}

// Document is a rendered resume
type Document struct {
	ID          int64
	Bytes       []byte
	ContentType string
}

// Service coordinates submission and retrieval. It holds no locks of its
// own; concurrent safety comes from the store and the immutable catalog.
type Service struct {
	store    store.Store
	catalog  *catalog.Catalog
	renderer rendering.Renderer
	tokens   *token.Issuer
	cfg      Config
	logger   zerolog.Logger
}

// New creates a Service.
func New(deps Deps, cfg Config) *Service {
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = DefaultRenderTimeout
	}
	tokens := deps.Tokens
	if tokens == nil {
		tokens = token.NewIssuer()
	}
	return &Service{
		store:    deps.Store,
		catalog:  deps.Catalog,
		renderer: deps.Renderer,
		tokens:   tokens,
		cfg:      cfg,
		logger:   deps.Logger,
	}
}

// Retention returns the configured retention window.
func (s *Service) Retention() time.Duration {
	return s.cfg.Retention
}

// RenderTimeout returns the configured per-render bound.
func (s *Service) RenderTimeout() time.Duration {
	return s.cfg.RenderTimeout
}

// Validate parses raw and checks that its language is known. It has no side
// effects.
func (s *Service) Validate(raw []byte) (*types.ResumeDocument, error) {
	doc, err := parsing.ParseResume(raw)
	if err != nil {
		// Only a schema that fails to compile is ours; a document the
		// validator cannot load is the client's.
		var loadErr *schemas.SchemaLoadError
		if errors.As(err, &loadErr) && loadErr.Stage == schemas.StageCompile {
			return nil, &FaultError{Op: "load schema", Cause: err}
		}
		return nil, &InvalidDocumentError{Cause: err}
	}
	if !s.catalog.HasLanguage(doc.Lang) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, doc.Lang)
	}
	return doc, nil
}

// Submit validates raw against templateID and stores it. Nothing is stored
// when the submission is rejected.
func (s *Service) Submit(ctx context.Context, raw []byte, templateID string) (*Receipt, error) {
	log := logging.FromContext(ctx, s.logger)

	if !s.catalog.HasTemplate(templateID) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)
	}
	doc, err := s.Validate(raw)
	if err != nil {
		return nil, err
	}

	tok, err := s.tokens.Issue()
	if err != nil {
		log.Error().Err(err).Msg("failed to issue token")
		return nil, &FaultError{Op: "issue token", Cause: err}
	}

	id, err := s.store.Insert(ctx, raw, tok, templateID)
	if err != nil {
		log.Error().Err(err).Msg("failed to store submission")
		return nil, &FaultError{Op: "store submission", Cause: err}
	}

	log.Info().
		Int64("id", id).
		Str("template", templateID).
		Str("lang", doc.Lang).
		Str("state", string(StateSubmitted)).
		Msg("submission stored")

	return &Receipt{ID: id, Token: tok}, nil
}

// Retrieve renders the submission with the given id for a requester holding
// tok. Expired submissions are swept first, so an expired id reports
// ErrNotFound. origin identifies the requester in logs.
func (s *Service) Retrieve(ctx context.Context, id int64, tok, origin string) (*Document, error) {
	log := logging.FromContext(ctx, s.logger)

	removed, err := s.store.Sweep(ctx, s.cfg.Retention)
	if err != nil {
		log.Error().Err(err).Msg("failed to sweep expired submissions")
		return nil, &FaultError{Op: "sweep", Cause: err}
	}
	if removed > 0 {
		log.Debug().Int64("removed", removed).Str("state", string(StateExpired)).Msg("swept expired submissions")
	}

	sub, err := s.store.Lookup(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info().Int64("id", id).Str("state", string(StateNotFound)).Msg("submission not found")
			return nil, ErrNotFound
		}
		log.Error().Err(err).Int64("id", id).Msg("failed to look up submission")
		return nil, &FaultError{Op: "look up submission", Cause: err}
	}

	if !token.Verify(tok, sub.Token) {
		log.Warn().
			Int64("id", id).
			Str("origin", origin).
			Str("state", string(StateTokenRejected)).
			Msg("token mismatch")
		return nil, ErrAccessDenied
	}

	doc, err := parsing.ParseResume(sub.RawJSON)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("stored submission no longer parses")
		return nil, &FaultError{Op: "parse stored submission", Cause: err}
	}

	log.Debug().Int64("id", id).Str("state", string(StatePendingRender)).Msg("rendering submission")
	pdf, err := s.Render(ctx, doc, sub.TemplateID)
	if err != nil {
		log.Error().Err(err).Int64("id", id).Str("template", sub.TemplateID).Msg("failed to render submission")
		return nil, err
	}

	log.Info().
		Int64("id", id).
		Int("bytes", len(pdf)).
		Str("state", string(StateRendered)).
		Msg("submission rendered")

	return &Document{ID: id, Bytes: pdf, ContentType: rendering.ContentTypePDF}, nil
}

// Render composes doc with templateID and converts it to PDF within the
// configured render timeout. All failures are returned as *FaultError.
func (s *Service) Render(ctx context.Context, doc *types.ResumeDocument, templateID string) ([]byte, error) {
	src, ok := s.catalog.Template(templateID)
	if !ok {
		return nil, &FaultError{Op: "load template", Cause: fmt.Errorf("%w: %q", ErrUnknownTemplate, templateID)}
	}
	lang, ok := s.catalog.Language(doc.Lang)
	if !ok {
		return nil, &FaultError{Op: "load language", Cause: fmt.Errorf("%w: %q", ErrUnknownLanguage, doc.Lang)}
	}

	markup, err := rendering.Compose(doc, lang, src)
	if err != nil {
		return nil, &FaultError{Op: "compose", Cause: err}
	}

	renderCtx, cancel := context.WithTimeout(ctx, s.cfg.RenderTimeout)
	defer cancel()

	pdf, err := s.renderer.RenderHTMLToPDF(renderCtx, markup, s.catalog.Static())
	if err != nil {
		return nil, &FaultError{Op: "render", Cause: err}
	}
	if !rendering.IsPDF(pdf) {
		return nil, &FaultError{Op: "render", Cause: rendering.ErrNotPDF}
	}
	return pdf, nil
}
