// Package main provides the entry point for the resume PDF service and its
// offline tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-pdf/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "resume_pdf",
	Short:         "Ephemeral resume PDF service",
	Long:          "resume_pdf accepts JSON resumes through a browser editor, keeps them for a short retention window and renders them to PDF on request.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (optional)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config (if any) and the
// environment. Callers apply their own flags and then validate.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
