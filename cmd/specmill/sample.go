package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/specmill/specmill/internal/output"
	"github.com/specmill/specmill/internal/pipeline"
)

var sampleOutDir string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Run the pipeline on a built-in sample document",
	Long: `Run the full parsing pipeline on a built-in synthetic specification.

Useful for verifying an installation and inspecting the output layout
without a PDF on hand.

Examples:
  specmill sample                   # Output under ~/.specmill/output/sample/
  specmill sample --out ./demo      # Custom output directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		outDir, err := resolveOutDir(sampleOutDir, cfg.Defaults.OutputDir, "sample")
		if err != nil {
			return err
		}

		p := pipeline.New(cfg, logger)
		summary, err := p.Sample(ctx, outDir)
		if err != nil {
			return err
		}

		return output.Print(summary)
	},
}

func init() {
	sampleCmd.Flags().StringVar(&sampleOutDir, "out", "", "output directory (default: home output dir/sample)")

	rootCmd.AddCommand(sampleCmd)
}
