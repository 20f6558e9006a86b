// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gostbib/internal/export"
	"github.com/pdiddy/gostbib/pkg/types"
)

// ExportDocument is the YAML/JSON shape of a catalog export.
type ExportDocument struct {
	Entries  []Entry         `json:"entries" yaml:"entries"`
	Warnings []SourceWarning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

const exportLimit = 100000

// Export writes the entries matching opts to cfg.Dir/export.<ext> in format
// f and returns the path written. Supported formats are yaml, json and xlsx.
func (s *Store) Export(ctx context.Context, f export.Format, opts QueryOptions) (string, error) {
	opts.MaxResults = exportLimit
	entries, err := s.List(ctx, opts)
	if err != nil {
		return "", fmt.Errorf("querying for export: %w", err)
	}

	var data []byte
	switch f {
	case export.FormatYAML, export.FormatJSON:
		warnings, err := s.Warnings(ctx, opts.Source)
		if err != nil {
			return "", err
		}
		doc := ExportDocument{Entries: entries, Warnings: warnings}
		if f == export.FormatYAML {
			data, err = yaml.Marshal(doc)
		} else {
			data, err = json.MarshalIndent(doc, "", "  ")
		}
		if err != nil {
			return "", fmt.Errorf("marshaling %s: %w", f, err)
		}
	case export.FormatXLSX:
		formatted := make([]types.FormattedEntry, len(entries))
		for i, e := range entries {
			formatted[i] = e.FormattedEntry
		}
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, formatted); err != nil {
			return "", err
		}
		data = buf.Bytes()
	default:
		return "", fmt.Errorf("catalog export supports yaml, json, or xlsx, not %q", f)
	}

	path := filepath.Join(s.dir, "export"+f.Extension())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
