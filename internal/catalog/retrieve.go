// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/gostbib/internal/collate"
	"github.com/pdiddy/gostbib/pkg/types"
)

// QueryOptions holds parameters for catalog queries.
type QueryOptions struct {
	// Query matches entries whose rendered text contains it.
	Query string

	// Locale filters by bucket.
	Locale types.Locale

	// Type filters by entry type.
	Type string

	// Source filters by the database file the entry came from.
	Source string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// Entry is a stored formatted entry with the file it came from.
type Entry struct {
	types.FormattedEntry `yaml:",inline"`
	Source               string `json:"source" yaml:"source"`
}

// SourceWarning is a stored warning with the file it came from.
type SourceWarning struct {
	types.Warning `yaml:",inline"`
	Source        string `json:"source" yaml:"source"`
}

// List returns entries matching opts, native before foreign and ordered by
// rendered text within each bucket.
func (s *Store) List(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}
	return s.query(ctx, opts,
		` ORDER BY CASE locale WHEN 'native' THEN 0 ELSE 1 END, text, source, position`,
		maxResults)
}

func (s *Store) query(ctx context.Context, opts QueryOptions, order string, limit int) ([]Entry, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(`SELECT id, source, locale, type, text FROM entries WHERE 1=1`)

	if opts.Query != "" {
		qb.WriteString(` AND instr(text, ?) > 0`)
		args = append(args, opts.Query)
	}
	if opts.Locale != "" {
		qb.WriteString(` AND locale = ?`)
		args = append(args, string(opts.Locale))
	}
	if opts.Type != "" {
		qb.WriteString(` AND type = ?`)
		args = append(args, opts.Type)
	}
	if opts.Source != "" {
		qb.WriteString(` AND source = ?`)
		args = append(args, opts.Source)
	}

	qb.WriteString(order)
	qb.WriteString(` LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e   Entry
			loc string
		)
		if err := rows.Scan(&e.ID, &e.Source, &loc, &e.Type, &e.Text); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Locale = types.Locale(loc)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Warnings returns the stored warnings, optionally for one source.
func (s *Store) Warnings(ctx context.Context, source string) ([]SourceWarning, error) {
	q := `SELECT source, entry_id, kind, message FROM warnings`
	var args []any
	if source != "" {
		q += ` WHERE source = ?`
		args = append(args, source)
	}
	q += ` ORDER BY source, rowid`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying warnings: %w", err)
	}
	defer rows.Close()

	var warnings []SourceWarning
	for rows.Next() {
		var (
			w       SourceWarning
			entryID sql.NullString
			kind    string
		)
		if err := rows.Scan(&w.Source, &entryID, &kind, &w.Message); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		w.EntryID = entryID.String
		w.Kind = types.WarningKind(kind)
		warnings = append(warnings, w)
	}
	return warnings, rows.Err()
}

// Render writes one thebibliography block combining every stored entry
// that matches opts. Each bucket is sorted by rendered text; entries with
// identical text keep source path and input order.
func (s *Store) Render(ctx context.Context, w io.Writer, opts QueryOptions) (int, error) {
	entries, err := s.query(ctx, opts, ` ORDER BY source, position`, exportLimit)
	if err != nil {
		return 0, err
	}

	var native, foreign []types.FormattedEntry
	for _, e := range entries {
		if e.Locale == types.Native {
			native = append(native, e.FormattedEntry)
		} else {
			foreign = append(foreign, e.FormattedEntry)
		}
	}
	collate.Sort(native)
	collate.Sort(foreign)

	if err := collate.Assemble(w, native, foreign); err != nil {
		return 0, err
	}
	return len(entries), nil
}
