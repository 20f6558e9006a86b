// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes formatted bibliography entries and parsed records
// in machine-readable formats: YAML, JSON, XLSX, CSL-YAML and BibTeX.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gostbib/internal/bibtex"
	"github.com/pdiddy/gostbib/pkg/types"
)

// Format names an export format.
type Format string

const (
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatXLSX   Format = "xlsx"
	FormatCSL    Format = "csl"
	FormatBibTeX Format = "bibtex"
)

// Extension returns the conventional file extension for f.
func (f Format) Extension() string {
	switch f {
	case FormatCSL:
		return ".yaml"
	case FormatBibTeX:
		return ".bib"
	default:
		return "." + string(f)
	}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatYAML, FormatJSON, FormatXLSX, FormatCSL, FormatBibTeX:
		return f, nil
	case "":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q: use yaml, json, xlsx, csl, or bibtex", s)
	}
}

// Document is the YAML/JSON shape of an export.
type Document struct {
	Entries  []types.FormattedEntry `json:"entries" yaml:"entries"`
	Warnings []types.Warning        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Write writes doc in format f. Entry formats (yaml, json, xlsx) use
// doc.Entries; record formats (csl, bibtex) use records.
func Write(w io.Writer, f Format, doc Document, records []types.Record) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatXLSX:
		return WriteXLSX(w, doc.Entries)
	case FormatCSL:
		return WriteCSL(w, records)
	case FormatBibTeX:
		_, err := io.WriteString(w, bibtex.Marshal(records))
		return err
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

const sheetName = "Bibliography"

var xlsxColumns = []string{"A", "B", "C", "D", "E"}

var xlsxHeader = []any{"No", "ID", "Locale", "Type", "Text"}

// WriteXLSX writes entries as a single worksheet, one row per entry, in
// the order given.
func WriteXLSX(w io.Writer, entries []types.FormattedEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := setRow(f, 1, xlsxHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range entries {
		row := []any{i + 1, e.ID, string(e.Locale), e.Type, e.Text}
		if err := setRow(f, i+2, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(sheetName, "E", "E", 120); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	for i, v := range values {
		if err := f.SetCellValue(sheetName, xlsxColumns[i]+strconv.Itoa(row), v); err != nil {
			return err
		}
	}
	return nil
}
