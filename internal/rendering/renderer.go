package rendering

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ContentTypePDF is the content type of rendered documents
const ContentTypePDF = "application/pdf"

// pdfMagic is the header every PDF file starts with
var pdfMagic = []byte("%PDF-")

// Renderer converts composed markup into document bytes. base holds the
// resources the markup references by relative path (stylesheets, images).
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string, base fs.FS) ([]byte, error)
}

// IsPDF reports whether b starts with the PDF file header.
func IsPDF(b []byte) bool {
	return bytes.HasPrefix(b, pdfMagic)
}

// ChromedpRenderer prints markup to PDF with headless Chrome.
// Every call starts its own browser, so calls are independent.
type ChromedpRenderer struct {
	execPath string
	tmpDir   string
}

// NewChromedpRenderer creates a renderer. An empty execPath lets chromedp
// locate Chrome on the PATH.
func NewChromedpRenderer(execPath string) *ChromedpRenderer {
	return &ChromedpRenderer{execPath: execPath}
}

// RenderHTMLToPDF writes html next to the base resources in a temporary
// directory and prints it to an A4 PDF. The caller bounds the call with ctx.
func (r *ChromedpRenderer) RenderHTMLToPDF(ctx context.Context, html string, base fs.FS) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	dir, err := os.MkdirTemp(r.tmpDir, "resume-")
	if err != nil {
		return nil, &RenderError{Stage: "create work directory", Cause: err}
	}
	defer os.RemoveAll(dir)

	if base != nil {
		if err := os.CopyFS(dir, base); err != nil {
			return nil, &RenderError{Stage: "stage base resources", Cause: err}
		}
	}

	htmlPath := filepath.Join(dir, "index.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o600); err != nil {
		return nil, &RenderError{Stage: "write markup", Cause: err}
	}

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(htmlPath)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4: 210mm x 297mm -> inches: 8.27 x 11.69
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderError{Stage: "print to pdf", Cause: err}
	}
	if !IsPDF(pdf) {
		return nil, &RenderError{Stage: "print to pdf", Cause: ErrNotPDF}
	}
	return pdf, nil
}
