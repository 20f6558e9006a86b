// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gostbib/internal/export"
	"github.com/pdiddy/gostbib/pkg/types"
)

const (
	russianDB = `@article{ru1, author={Ivanov Ivan}, title={Заголовок}, journal={Журнал}, year={2020}}
@book{ru2, author={Петров Петр}, title={Алгебра}, address={Москва}, publisher={Наука}, year={1999}}
@manual{bad, author={X Y}, title={Руководство}}
`
	englishDB = `@book{en1, author={Smith John}, title={Theory}, year={2000}}
@article{en2, author={Doe Jane}, title={Analysis}, journal={Journal}, year={2010}}
`
)

func testSetup(t *testing.T) (*Store, string) {
	t.Helper()
	tmpDir := t.TempDir()

	store, err := NewStore(types.CatalogConfig{Dir: filepath.Join(tmpDir, "catalog")}, WithEncoding("utf-8"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, tmpDir
}

func writeDB(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ingest(t *testing.T, store *Store, paths ...string) (IngestSummary, string) {
	t.Helper()
	var buf strings.Builder
	summary, err := store.Ingest(context.Background(), paths, &buf)
	require.NoError(t, err)
	return summary, buf.String()
}

func TestNewStoreCreatesSchema(t *testing.T) {
	store, tmpDir := testSetup(t)

	for _, table := range []string{"sources", "entries", "warnings"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}

	assert.FileExists(t, filepath.Join(tmpDir, "catalog", dbFile))
}

func TestIngest(t *testing.T) {
	store, tmpDir := testSetup(t)
	ru := writeDB(t, tmpDir, "ru.bib", russianDB)
	en := writeDB(t, tmpDir, "en.bib", englishDB)

	summary, out := ingest(t, store, ru, en, filepath.Join(tmpDir, "missing.bib"))

	assert.Equal(t, IngestSummary{Indexed: 2, Failed: 1}, summary)
	assert.Equal(t, 3, summary.Total())
	assert.Contains(t, out, "indexing "+ru+" (2 entries)")
	assert.Contains(t, out, "indexing "+en+" (2 entries)")
	assert.Contains(t, out, "failed  ")
	assert.Contains(t, out, "indexed: 2, updated: 0, skipped: 0, failed: 1")
	assert.FileExists(t, filepath.Join(tmpDir, "catalog", "export.yaml"))
}

func TestIngestSkipsUnchanged(t *testing.T) {
	store, tmpDir := testSetup(t)
	ru := writeDB(t, tmpDir, "ru.bib", russianDB)
	ingest(t, store, ru)

	summary, out := ingest(t, store, ru)
	assert.Equal(t, IngestSummary{Skipped: 1}, summary)
	assert.Contains(t, out, "skipped "+ru)
}

func TestIngestUpdatesChanged(t *testing.T) {
	store, tmpDir := testSetup(t)
	path := writeDB(t, tmpDir, "refs.bib", russianDB)
	ingest(t, store, path)

	writeDB(t, tmpDir, "refs.bib", englishDB)
	future := time.Now().Add(time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	summary, _ := ingest(t, store, path)
	assert.Equal(t, IngestSummary{Updated: 1}, summary)

	entries, err := store.List(context.Background(), QueryOptions{})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, types.Foreign, e.Locale, "old entries should be replaced")
	}

	warnings, err := store.Warnings(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestIngestCancelled(t *testing.T) {
	store, tmpDir := testSetup(t)
	ru := writeDB(t, tmpDir, "ru.bib", russianDB)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf strings.Builder
	summary, err := store.Ingest(ctx, []string{ru}, &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, summary.Total())
}

func TestList(t *testing.T) {
	store, tmpDir := testSetup(t)
	ingest(t, store,
		writeDB(t, tmpDir, "ru.bib", russianDB),
		writeDB(t, tmpDir, "en.bib", englishDB))

	tests := []struct {
		name    string
		opts    QueryOptions
		wantIDs []string
	}{
		{"all, native first then by text", QueryOptions{}, []string{"ru1", "ru2", "en2", "en1"}},
		{"locale", QueryOptions{Locale: types.Foreign}, []string{"en2", "en1"}},
		{"type", QueryOptions{Type: "book"}, []string{"ru2", "en1"}},
		{"query", QueryOptions{Query: "Журнал"}, []string{"ru1"}},
		{"query and locale", QueryOptions{Query: "Journal", Locale: types.Native}, nil},
		{"limit", QueryOptions{MaxResults: 1}, []string{"ru1"}},
		{"source", QueryOptions{Source: filepath.Join(tmpDir, "en.bib"), Type: "article"}, []string{"en2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := store.List(context.Background(), tt.opts)
			require.NoError(t, err)

			var ids []string
			for _, e := range entries {
				ids = append(ids, e.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestListCarriesSource(t *testing.T) {
	store, tmpDir := testSetup(t)
	en := writeDB(t, tmpDir, "en.bib", englishDB)
	ingest(t, store, en)

	entries, err := store.List(context.Background(), QueryOptions{Query: "Theory"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, en, entries[0].Source)
	assert.Equal(t, "book", entries[0].Type)
	assert.Equal(t, "Smith, John Theory / John Smith.~--- 2000.", entries[0].Text)
}

func TestWarnings(t *testing.T) {
	store, tmpDir := testSetup(t)
	ru := writeDB(t, tmpDir, "ru.bib", russianDB)
	ingest(t, store, ru)

	warnings, err := store.Warnings(context.Background(), ru)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "bad", warnings[0].EntryID)
	assert.Equal(t, types.WarnMissingField, warnings[0].Kind)
	assert.Equal(t, ru, warnings[0].Source)
}

func TestRender(t *testing.T) {
	store, tmpDir := testSetup(t)
	ingest(t, store,
		writeDB(t, tmpDir, "en.bib", englishDB),
		writeDB(t, tmpDir, "ru.bib", russianDB))

	var buf bytes.Buffer
	n, err := store.Render(context.Background(), &buf, QueryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\\begin{thebibliography}{999}\n\n"))
	assert.True(t, strings.HasSuffix(out, "\\end{thebibliography}\n"))

	order := []string{`\bibitem{ru1}`, `\bibitem{ru2}`, `\bibitem{en2}`, `\bibitem{en1}`}
	last := -1
	for _, marker := range order {
		idx := strings.Index(out, marker)
		require.NotEqual(t, -1, idx, marker)
		assert.Greater(t, idx, last, marker)
		last = idx
	}
}

func TestExport(t *testing.T) {
	store, tmpDir := testSetup(t)
	ingest(t, store, writeDB(t, tmpDir, "ru.bib", russianDB))
	ctx := context.Background()

	t.Run("yaml", func(t *testing.T) {
		path, err := store.Export(ctx, export.FormatYAML, QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmpDir, "catalog", "export.yaml"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var doc ExportDocument
		require.NoError(t, yaml.Unmarshal(data, &doc))
		require.Len(t, doc.Entries, 2)
		assert.Equal(t, "ru1", doc.Entries[0].ID)
		assert.NotEmpty(t, doc.Entries[0].Source)
		require.Len(t, doc.Warnings, 1)
		assert.Equal(t, "bad", doc.Warnings[0].EntryID)
	})

	t.Run("json", func(t *testing.T) {
		path, err := store.Export(ctx, export.FormatJSON, QueryOptions{Type: "article"})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var doc ExportDocument
		require.NoError(t, json.Unmarshal(data, &doc))
		require.Len(t, doc.Entries, 1)
		assert.Equal(t, "ru1", doc.Entries[0].ID)
		assert.Contains(t, string(data), `"source":`)
	})

	t.Run("xlsx", func(t *testing.T) {
		path, err := store.Export(ctx, export.FormatXLSX, QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, ".xlsx", filepath.Ext(path))

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Bibliography")
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := store.Export(ctx, export.FormatCSL, QueryOptions{})
		assert.Error(t, err)
	})
}
