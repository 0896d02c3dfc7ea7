package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pdf/assets"
	"github.com/jonathan/resume-pdf/internal/catalog"
	"github.com/jonathan/resume-pdf/internal/observability"
	"github.com/jonathan/resume-pdf/internal/parsing"
	"github.com/jonathan/resume-pdf/internal/rendering"
	"github.com/jonathan/resume-pdf/internal/submission"
	"github.com/jonathan/resume-pdf/internal/types"
)

var (
	validateInput   string
	validateVerbose bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a resume JSON document",
	Long:  "Checks a resume document (JSON or JSON5) against the resume schema and the shipped language packs without storing it.",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "in", "i", "", "Path to resume JSON file, or - for stdin (required)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Print a summary of the parsed resume")

	if err := validateCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	raw, err := readInput(cmd, validateInput)
	if err != nil {
		return err
	}

	svc, cat, err := offlineService(nil, 0)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	doc, err := svc.Validate(raw)
	if err != nil {
		var invalid *submission.InvalidDocumentError
		if validateVerbose && errors.As(err, &invalid) && len(invalid.FieldErrors()) > 0 {
			printer.PrintFieldErrors(invalid.FieldErrors())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Validation failed")
			return err
		}
		return reportInvalid(cmd.OutOrStdout(), err)
	}

	if validateVerbose {
		lang, _ := cat.Language(doc.Lang)
		printer.PrintResume(doc, lang)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s (%s)\n", displayName(doc), doc.Lang)
	return nil
}

// reportInvalid prints field errors for invalid documents and returns the
// error unchanged so the process exits non-zero.
func reportInvalid(w io.Writer, err error) error {
	var invalid *submission.InvalidDocumentError
	if errors.As(err, &invalid) {
		_, _ = fmt.Fprintln(w, "Validation failed:")
		for _, fe := range invalid.FieldErrors() {
			_, _ = fmt.Fprintf(w, "  - %s: %s\n", fe.Field, fe.Message)
		}
		if len(invalid.FieldErrors()) == 0 {
			_, _ = fmt.Fprintf(w, "  - %v\n", invalid.Cause)
		}
		return err
	}
	if errors.Is(err, submission.ErrUnknownLanguage) {
		_, _ = fmt.Fprintf(w, "Validation failed: %v\n", err)
	}
	return err
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("resume file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	return raw, nil
}

// compileResumeSchema is replaced in tests that need a broken schema.
var compileResumeSchema = func() error {
	_, err := parsing.ResumeSchema()
	return err
}

// loadResources loads the bundled catalog and compiles the resume schema
// so that a bad build fails before anything is served.
func loadResources() (*catalog.Catalog, error) {
	cat, err := catalog.Load(assets.FS)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := compileResumeSchema(); err != nil {
		return nil, fmt.Errorf("failed to compile resume schema: %w", err)
	}
	return cat, nil
}

// offlineService builds a service with no store for commands that only
// validate or render.
func offlineService(renderer rendering.Renderer, renderTimeout time.Duration) (*submission.Service, *catalog.Catalog, error) {
	cat, err := loadResources()
	if err != nil {
		return nil, nil, err
	}
	svc := submission.New(submission.Deps{Catalog: cat, Renderer: renderer}, submission.Config{RenderTimeout: renderTimeout})
	return svc, cat, nil
}

func displayName(doc *types.ResumeDocument) string {
	if name := doc.Person.Name.Full(); name != "" {
		return name
	}
	return "(unnamed)"
}
