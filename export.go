package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the portfolio content as JSON or YAML",
	Long: `Resolves every section and education record, including image URLs under
BASE_URL, and writes them to stdout or --out for front-end builds.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOut, err)
			}
			defer f.Close()
			w = f
		}
		return writeSnapshot(w, exportFormat, cfg.BaseURL)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}

func writeSnapshot(w io.Writer, format, baseURL string) error {
	if err := content.Validate(); err != nil {
		return fmt.Errorf("content assets: %w", err)
	}
	snap, err := content.BuildSnapshot(baseURL)
	if err != nil {
		return err
	}
	switch format {
	case "json":
		return snap.WriteJSON(w)
	case "yaml", "yml":
		return snap.WriteYAML(w)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
