// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/gostbib/internal/catalog"
	"github.com/pdiddy/gostbib/internal/export"
	"github.com/pdiddy/gostbib/internal/textio"
	"github.com/pdiddy/gostbib/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the catalog of rendered entries (store, list, render, export)",
	Long: `Catalog keeps the rendered entries of many bibliography databases in a
local SQLite database. Use subcommands to add databases, search entries,
assemble a combined bibliography, or export the catalog.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store <files...>",
	Short: "Render bibliography databases and add them to the catalog",
	Long: `Store renders each database and records its entries and warnings in the
catalog. Files unchanged since they were last stored are skipped; changed
files replace their previous entries. An export.yaml is written next to the
catalog database after any change.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Ingest(context.Background(), args, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d file(s) failed", summary.Failed)
	}
	return nil
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List catalog entries with optional text search and filters",
	Long: `List prints catalog entries, native before foreign and sorted by text.
A query argument or --query matches entries whose text contains it; --locale,
--type and --source narrow the result further.`,
	RunE: runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)
	entries, err := store.List(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatListOutput(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatListOutput(w io.Writer, entries []catalog.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return nil
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-7s  %-10s  %s\n", "No", "ID", "Locale", "Type", "Text")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, e := range entries {
		text := []rune(e.Text)
		if len(text) > 60 {
			text = append(text[:57], []rune("...")...)
		}
		fmt.Fprintf(w, "%-4d  %-20s  %-7s  %-10s  %s\n", i+1, e.ID, e.Locale, e.Type, string(text))
	}

	fmt.Fprintf(w, "\n%d entries\n", len(entries))
	return nil
}

// --- render subcommand ---

var catalogRenderCmd = &cobra.Command{
	Use:   "render <output>",
	Short: "Write one bibliography combining the catalog entries",
	Long: `Render assembles a single thebibliography block from the catalog entries
matching the filter flags, native entries first, each list sorted by text.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogRender,
}

func runCatalogRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	var sb strings.Builder
	n, err := store.Render(context.Background(), &sb, queryOptsFromFlags(cmd, nil))
	if err != nil {
		return err
	}
	if err := textio.WriteFile(args[0], cfg.Render.OutputEncoding, sb.String()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %d entries to %s\n", n, args[0])
	return nil
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to YAML, JSON or XLSX",
	Long: `Export writes the catalog (or a filtered subset) to export.yaml,
export.json or export.xlsx in the catalog directory.`,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	f, err := export.ParseFormat(formatName)
	if err != nil {
		return err
	}

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := store.Export(context.Background(), f, queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func openCatalog() (*catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return catalog.NewStore(cfg.Catalog,
		catalog.WithEngine(newEngine(cfg)),
		catalog.WithEncoding(cfg.Render.Encoding),
		catalog.WithLogger(logger),
	)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	loc, _ := cmd.Flags().GetString("locale")
	entryType, _ := cmd.Flags().GetString("type")
	source, _ := cmd.Flags().GetString("source")
	if source != "" {
		if abs, err := filepath.Abs(source); err == nil {
			source = abs
		}
	}
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Locale:     types.Locale(loc),
		Type:       entryType,
		Source:     source,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "match entries whose text contains this string")
	cmd.Flags().String("locale", "", "filter by locale: native or foreign")
	cmd.Flags().String("type", "", "filter by entry type")
	cmd.Flags().String("source", "", "filter by source database path")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "directory holding catalog.db and exports")
	catalogCmd.PersistentFlags().Int("max-results", 50, "default maximum number of list results")
	viper.BindPFlag("catalog.dir", catalogCmd.PersistentFlags().Lookup("catalog-dir"))
	viper.BindPFlag("catalog.max_results", catalogCmd.PersistentFlags().Lookup("max-results"))

	addFilterFlags(catalogListCmd)
	catalogListCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogListCmd.Flags().Bool("json", false, "output entries as JSON")

	addFilterFlags(catalogRenderCmd)

	addFilterFlags(catalogExportCmd)
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml, json, or xlsx")

	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogRenderCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
