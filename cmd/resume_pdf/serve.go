package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pdf/internal/config"
	"github.com/jonathan/resume-pdf/internal/logging"
	"github.com/jonathan/resume-pdf/internal/rendering"
	"github.com/jonathan/resume-pdf/internal/server"
	"github.com/jonathan/resume-pdf/internal/submission"
	"github.com/jonathan/resume-pdf/internal/token"
)

var (
	servePort          int
	serveBackend       string
	serveRetention     time.Duration
	serveRenderTimeout time.Duration
	serveChromePath    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Start an HTTP server that serves the resume editors, accepts uploads and renders stored resumes to PDF.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on")
	serveCmd.Flags().StringVar(&serveBackend, "store", config.DefaultBackend, "Submission store backend (memory, postgres, redis)")
	serveCmd.Flags().DurationVar(&serveRetention, "retention", config.DefaultRetention, "How long submissions stay retrievable")
	serveCmd.Flags().DurationVar(&serveRenderTimeout, "render-timeout", config.DefaultRenderTimeout, "Upper bound for a single PDF render")
	serveCmd.Flags().StringVar(&serveChromePath, "chrome-path", "", "Chrome binary used for rendering (default: search PATH)")
	rootCmd.AddCommand(serveCmd)
}

// applyServeFlags overrides cfg with flags the user set explicitly.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("store") {
		cfg.Store.Backend = serveBackend
	}
	if flags.Changed("retention") {
		cfg.Retention = config.Duration(serveRetention)
	}
	if flags.Changed("render-timeout") {
		cfg.RenderTimeout = config.Duration(serveRenderTimeout)
	}
	if flags.Changed("chrome-path") {
		cfg.ChromePath = serveChromePath
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyServeFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.Init(cfg.Log)

	cat, err := loadResources()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close store")
		}
	}()

	svc := submission.New(submission.Deps{
		Store:    st,
		Catalog:  cat,
		Renderer: rendering.NewChromedpRenderer(cfg.ChromePath),
		Tokens:   token.NewIssuer(),
		Logger:   logger,
	}, submission.Config{
		Retention:     cfg.Retention.Std(),
		RenderTimeout: cfg.RenderTimeout.Std(),
	})

	logger.Info().
		Str("store", cfg.Store.Backend).
		Dur("retention", cfg.Retention.Std()).
		Strs("templates", cat.ListTemplates()).
		Strs("languages", cat.ListLanguages()).
		Msg("service configured")

	srv := server.New(server.Config{Addr: cfg.Addr()}, svc, cat, logger)
	return srv.Start(ctx)
}
