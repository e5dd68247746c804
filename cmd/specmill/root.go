package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/specmill/specmill/internal/output"
	"github.com/specmill/specmill/version"
)

var (
	cfgFile      string
	homeDir      string
	outputFormat string
	verbose      bool
)

var rootCmd = &cobra.Command{
	Use:   "specmill",
	Short: "Heuristic document-structure parser for technical specifications",
	Long: `Specmill converts technical specification PDFs into validated,
hierarchical section data.

The pipeline includes:
  - Per-page text extraction with quality scoring
  - Table of contents recognition via layered pattern matching
  - Section boundary mapping and content classification
  - Cross-validation of the ToC against extracted sections
  - JSONL output with schema validation plus CSV reports`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.specmill/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&homeDir, "home", "", "specmill home directory (default: ~/.specmill)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "output format: yaml or json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false, "enable debug logging",
	)

	// Set output format and log level before any command runs
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		output.SetFormat(outputFormat)

		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	}

	rootCmd.AddCommand(versionCmd)
}
