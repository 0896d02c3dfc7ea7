package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pdf/internal/catalog"
	"github.com/jonathan/resume-pdf/internal/config"
	"github.com/jonathan/resume-pdf/internal/rendering"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume JSON document to PDF",
	Long:  "Renders a resume document with one of the bundled templates using headless Chrome, without going through the HTTP server or a store.",
	RunE:  runRender,
}

var (
	renderInput      string
	renderTemplate   string
	renderOutput     string
	renderHTMLOnly   bool
	renderChromePath string
	renderTimeout    time.Duration
)

// newRenderer is replaced in tests that must not start Chrome.
var newRenderer = func(execPath string) rendering.Renderer {
	return rendering.NewChromedpRenderer(execPath)
}

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "in", "i", "", "Path to resume JSON file, or - for stdin (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", catalog.Templates[0], "Template to render with")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output file (required)")
	renderCmd.Flags().BoolVar(&renderHTMLOnly, "html", false, "Write the composed HTML instead of a PDF")
	renderCmd.Flags().StringVar(&renderChromePath, "chrome-path", "", "Chrome binary used for rendering (default: search PATH)")
	renderCmd.Flags().DurationVar(&renderTimeout, "timeout", config.DefaultRenderTimeout, "Upper bound for the render")

	if err := renderCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, renderInput)
	if err != nil {
		return err
	}

	svc, cat, err := offlineService(newRenderer(renderChromePath), renderTimeout)
	if err != nil {
		return err
	}
	src, ok := cat.Template(renderTemplate)
	if !ok {
		return fmt.Errorf("unknown template %q (available: %v)", renderTemplate, cat.ListTemplates())
	}
	doc, err := svc.Validate(raw)
	if err != nil {
		return reportInvalid(cmd.OutOrStdout(), err)
	}

	var out []byte
	if renderHTMLOnly {
		lang, _ := cat.Language(doc.Lang)
		markup, err := rendering.Compose(doc, lang, src)
		if err != nil {
			return fmt.Errorf("failed to compose HTML: %w", err)
		}
		out = []byte(markup)
	} else {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		// Render bounds itself by --timeout
		out, err = svc.Render(ctx, doc, renderTemplate)
		if err != nil {
			return fmt.Errorf("failed to render PDF: %w", err)
		}
	}

	if err := os.WriteFile(renderOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully rendered %s with %s to %s (%d bytes)\n",
		displayName(doc), renderTemplate, renderOutput, len(out))
	return nil
}
