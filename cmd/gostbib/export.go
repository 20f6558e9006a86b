// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gostbib/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export <input>",
	Short: "Export formatted entries or parsed records",
	Long: `Export processes a bibliography database and writes the result in a
machine-readable format:

  yaml, json  formatted entries (native then foreign) with warnings
  xlsx        formatted entries as a spreadsheet
  csl         parsed records as CSL-YAML for Pandoc and reference managers
  bibtex      parsed records as normalized BibTeX

The output path defaults to the input path with the format's extension;
use --out - to write to standard output.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	f, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input := args[0]
	res, err := processFile(input, cfg)
	if err != nil {
		return err
	}

	if out == "" {
		out = strings.TrimSuffix(input, filepath.Ext(input)) + f.Extension()
	}
	if filepath.Clean(out) == filepath.Clean(input) {
		return fmt.Errorf("refusing to overwrite input %s: pass --out", input)
	}

	var w io.Writer = cmd.OutOrStdout()
	if out != "-" {
		file, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", out, err)
		}
		defer file.Close()
		w = file
	}

	doc := export.Document{Entries: res.Entries(), Warnings: res.Warnings}
	if err := export.Write(w, f, doc, res.Records); err != nil {
		return fmt.Errorf("exporting %s: %w", f, err)
	}

	if out != "-" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries to %s\n", res.Rendered(), out)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml, json, xlsx, csl, or bibtex")
	exportCmd.Flags().String("out", "", "output path (default: input with the format's extension, - for stdout)")
	rootCmd.AddCommand(exportCmd)
}
