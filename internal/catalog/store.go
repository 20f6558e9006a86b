// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog keeps the rendered entries of many bibliography databases
// in one SQLite file so they can be listed, searched and assembled into a
// combined bibliography.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/gostbib/internal/bibliography"
	"github.com/pdiddy/gostbib/internal/export"
	"github.com/pdiddy/gostbib/internal/textio"
	"github.com/pdiddy/gostbib/pkg/types"
)

const (
	dbFile            = "catalog.db"
	defaultMaxResults = 50
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
	encoding   string
	engine     *bibliography.Engine
	logger     *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithEngine sets the engine used to render ingested files.
func WithEngine(e *bibliography.Engine) Option {
	return func(s *Store) { s.engine = e }
}

// WithEncoding sets the encoding ingested files are read in.
func WithEncoding(name string) Option {
	return func(s *Store) { s.encoding = name }
}

// WithLogger sets the logger for ingest diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore opens or creates the catalog database at cfg.Dir/catalog.db and
// creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{
		db:         db,
		dir:        cfg.Dir,
		maxResults: maxResults,
		encoding:   textio.DefaultEncoding,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = bibliography.NewEngine(bibliography.WithLogger(s.logger))
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			path TEXT PRIMARY KEY,
			file_mod_time TEXT NOT NULL,
			parsed INTEGER NOT NULL,
			rendered INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL,
			source TEXT NOT NULL REFERENCES sources(path) ON DELETE CASCADE,
			locale TEXT NOT NULL,
			type TEXT NOT NULL,
			text TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_source ON entries(source)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_locale ON entries(locale)`,
		`CREATE TABLE IF NOT EXISTS warnings (
			source TEXT NOT NULL REFERENCES sources(path) ON DELETE CASCADE,
			entry_id TEXT,
			kind TEXT NOT NULL,
			message TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from a catalog ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest renders each bibliography database in paths and stores its entries
// and warnings. Files whose modification time matches the stored one are
// skipped; changed files replace their previous entries. Progress lines go
// to w. On any change the catalog is exported to export.yaml.
func (s *Store) Ingest(ctx context.Context, paths []string, w io.Writer) (IngestSummary, error) {
	var summary IngestSummary

	for _, p := range paths {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		path, err := filepath.Abs(p)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p, err)
			summary.Failed++
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM sources WHERE path = ?`, path,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", p)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		text, err := textio.ReadFile(path, s.encoding)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p, err)
			summary.Failed++
			continue
		}

		res := s.engine.Process(text)
		if err := s.ingestSource(ctx, path, modTime, res); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p, err)
			summary.Failed++
			continue
		}

		s.logger.Info("source stored",
			zap.String("path", path),
			zap.Int("rendered", res.Rendered()),
			zap.Int("skipped", res.Skipped()))

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d entries)\n", p, res.Rendered())
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d entries)\n", p, res.Rendered())
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if _, err := s.Export(ctx, export.FormatYAML, QueryOptions{}); err != nil {
			fmt.Fprintf(w, "warning: export.yaml write failed: %v\n", err)
		}
	}

	return summary, nil
}

func (s *Store) ingestSource(ctx context.Context, path, modTime string, res bibliography.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM entries WHERE source = ?`,
		`DELETE FROM warnings WHERE source = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, path); err != nil {
			return fmt.Errorf("deleting old rows: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sources (path, file_mod_time, parsed, rendered) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			file_mod_time=excluded.file_mod_time, parsed=excluded.parsed, rendered=excluded.rendered`,
		path, modTime, res.Parsed(), res.Rendered(),
	)
	if err != nil {
		return fmt.Errorf("upserting source: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (id, source, locale, type, text, position) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range res.Entries() {
		if _, err := stmt.ExecContext(ctx, e.ID, path, string(e.Locale), e.Type, e.Text, i); err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.ID, err)
		}
	}

	for _, wn := range res.Warnings {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO warnings (source, entry_id, kind, message) VALUES (?, ?, ?, ?)`,
			path, wn.EntryID, string(wn.Kind), wn.Message,
		)
		if err != nil {
			return fmt.Errorf("inserting warning: %w", err)
		}
	}

	return tx.Commit()
}
