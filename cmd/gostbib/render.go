// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/gostbib/internal/textio"
)

var renderCmd = &cobra.Command{
	Use:   "render <input> [output]",
	Short: "Write the thebibliography block for a BibTeX database",
	Long: `Render reads a bibliography database, formats every supported entry and
writes the thebibliography block. The output path defaults to the input path
with a .tex extension.

Entries that cannot be formatted (missing required fields, malformed author
names, unsupported types) are skipped with a warning; use check to list them.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	input := args[0]
	output := textio.OutputPath(input)
	if len(args) > 1 {
		output = args[1]
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return fmt.Errorf("refusing to overwrite input %s: pass an output path", input)
	}

	res, err := processFile(input, cfg)
	if err != nil {
		return err
	}

	var sb strings.Builder
	if err := res.Render(&sb); err != nil {
		return err
	}
	if err := textio.WriteFile(output, cfg.Render.OutputEncoding, sb.String()); err != nil {
		return err
	}

	logger.Info("bibliography written",
		zap.String("output", output),
		zap.Int("native", len(res.Native)),
		zap.Int("foreign", len(res.Foreign)))
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %d of %d entries (%d skipped) to %s\n",
		res.Rendered(), res.Parsed(), res.Skipped(), output)
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
