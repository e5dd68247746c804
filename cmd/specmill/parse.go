package main

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/specmill/specmill/internal/config"
	"github.com/specmill/specmill/internal/home"
	"github.com/specmill/specmill/internal/output"
	"github.com/specmill/specmill/internal/pipeline"
)

var (
	parseOutDir string
	parseTitle  string
)

var parseCmd = &cobra.Command{
	Use:   "parse <pdf>",
	Short: "Parse a specification PDF into structured section data",
	Long: `Parse a specification PDF: extract pages, recognize the table of
contents, map section boundaries, cross-validate, and write JSONL output
plus an Excel/CSV validation report.

Examples:
  specmill parse spec.pdf                     # Output under ~/.specmill/output/spec/
  specmill parse spec.pdf --out ./results     # Custom output directory
  specmill parse spec.pdf --title "USB PD"    # Override document title`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slog.Default()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		pdfPath := args[0]
		base := filepath.Base(pdfPath)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		outDir, err := resolveOutDir(parseOutDir, cfg.Defaults.OutputDir, stem)
		if err != nil {
			return err
		}

		p := pipeline.New(cfg, logger)
		summary, err := p.Run(ctx, pdfPath, outDir, parseTitle)
		if err != nil {
			return err
		}

		return output.Print(summary)
	},
}

// resolveOutDir picks the output directory for one run: the explicit
// --out flag, then the configured output_dir, then a per-run directory
// under the specmill home.
func resolveOutDir(explicit, cfgOutputDir, name string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if cfgOutputDir != "" {
		return filepath.Join(cfgOutputDir, name), nil
	}
	h, err := home.New(homeDir)
	if err != nil {
		return "", err
	}
	return h.EnsureRunDir(name)
}

// loadConfig resolves the config file from --config, then the home
// directory, then defaults.
func loadConfig() (*config.Config, error) {
	h, err := home.New(homeDir)
	if err != nil {
		return nil, err
	}

	resolved := cfgFile
	if resolved == "" && h.ConfigExists() {
		resolved = h.ConfigPath()
	}

	cm, err := config.NewManager(resolved)
	if err != nil {
		return nil, err
	}
	return cm.Get(), nil
}

func init() {
	parseCmd.Flags().StringVar(&parseOutDir, "out", "", "output directory (default: home output dir/<pdf name>)")
	parseCmd.Flags().StringVar(&parseTitle, "title", "", "document title override")

	rootCmd.AddCommand(parseCmd)
}
