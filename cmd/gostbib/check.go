// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/gostbib/internal/bibliography"
)

var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Report entries that would be skipped when rendering",
	Long: `Check processes a bibliography database without writing output and lists
every problem found: malformed input, missing required fields, malformed
author names and unsupported entry types.

With --strict, any problem makes the command fail.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	strict, _ := cmd.Flags().GetBool("strict")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	res, err := processFile(args[0], cfg)
	if err != nil {
		return err
	}

	printWarnings(cmd.OutOrStdout(), res)

	if strict && !res.OK() {
		return fmt.Errorf("%d problem(s) found in %s", len(res.Warnings), args[0])
	}
	return nil
}

func printWarnings(w io.Writer, res bibliography.Result) {
	for _, wn := range res.Warnings {
		id := wn.EntryID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%-20s  %-17s  %s\n", id, wn.Kind, wn.Message)
	}
	fmt.Fprintf(w, "\nparsed: %d, rendered: %d (native %d, foreign %d), skipped: %d\n",
		res.Parsed(), res.Rendered(), len(res.Native), len(res.Foreign), res.Skipped())
}

func init() {
	checkCmd.Flags().Bool("strict", false, "fail when any entry is skipped or the input is malformed")
	rootCmd.AddCommand(checkCmd)
}
