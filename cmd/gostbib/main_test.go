// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gostbib/internal/catalog"
	"github.com/pdiddy/gostbib/internal/export"
	"github.com/pdiddy/gostbib/internal/textio"
	"github.com/pdiddy/gostbib/pkg/types"
)

const sampleDB = `@article{ru1, author={Ivanov Ivan}, title={Заголовок}, journal={Журнал}, year={2020}}
@book{ru2, author={Петров Петр}, title={Алгебра}, address={Москва}, publisher={Наука}, year={1999}}
@manual{bad, author={X Y}, title={Руководство}}
@book{en1, author={Smith John}, title={Theory}, year={2000}}
`

// execute runs the root command with args. Flags keep their values between
// runs, so every test passes the flags it depends on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeSample(t *testing.T, encoding string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "refs.bib")
	require.NoError(t, textio.WriteFile(path, encoding, sampleDB))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "gostbib dev\n", out)
}

func TestRenderDefaultOutput(t *testing.T) {
	input := writeSample(t, "windows-1251")

	out, err := execute(t, "render", input, "--encoding", "windows-1251")
	require.NoError(t, err)

	output := filepath.Join(filepath.Dir(input), "refs.tex")
	assert.Contains(t, out, "rendered 3 of 4 entries (1 skipped) to "+output)

	text, err := textio.ReadFile(output, "windows-1251")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "\\begin{thebibliography}{999}\n\n\\bibitem{ru1}\n"), text)
	assert.Contains(t, text, "М. : Наука, 1999.")
	assert.NotContains(t, text, `\bibitem{bad}`)
	assert.Less(t, strings.Index(text, `\bibitem{ru2}`), strings.Index(text, `\bibitem{en1}`))
}

func TestRenderExplicitOutput(t *testing.T) {
	input := writeSample(t, "utf-8")
	output := filepath.Join(t.TempDir(), "out.tex")

	_, err := execute(t, "render", input, output, "--encoding", "utf-8")
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\bibitem{en1}`)
}

func TestRenderErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "render", filepath.Join(dir, "missing.bib"), "--encoding", "utf-8")
	assert.Error(t, err)

	tex := filepath.Join(dir, "refs.tex")
	require.NoError(t, os.WriteFile(tex, []byte(sampleDB), 0o644))
	_, err = execute(t, "render", tex, "--encoding", "utf-8")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to overwrite")

	_, err = execute(t, "render", tex, filepath.Join(dir, "out.tex"), "--encoding", "latin-9")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown encoding")
}

func TestCheck(t *testing.T) {
	input := writeSample(t, "utf-8")

	out, err := execute(t, "check", input, "--encoding", "utf-8", "--strict=false")
	require.NoError(t, err)
	assert.Contains(t, out, "bad")
	assert.Contains(t, out, string(types.WarnMissingField))
	assert.Contains(t, out, "parsed: 4, rendered: 3 (native 2, foreign 1), skipped: 1")

	_, err = execute(t, "check", input, "--encoding", "utf-8", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 problem(s)")
}

func TestExport(t *testing.T) {
	input := writeSample(t, "utf-8")
	output := filepath.Join(t.TempDir(), "refs.json")

	out, err := execute(t, "export", input, "--encoding", "utf-8", "--format", "json", "--out", output)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 entries to "+output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc export.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Entries, 3)
	assert.Equal(t, "ru1", doc.Entries[0].ID)
	assert.Equal(t, "en1", doc.Entries[2].ID)
	require.Len(t, doc.Warnings, 1)

	out, err = execute(t, "export", input, "--encoding", "utf-8", "--format", "bibtex", "--out", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "@manual{bad,")

	_, err = execute(t, "export", input, "--encoding", "utf-8", "--format", "docx", "--out", "-")
	assert.Error(t, err)
}

func TestCatalog(t *testing.T) {
	input := writeSample(t, "utf-8")
	dir := filepath.Join(t.TempDir(), "catalog")

	out, err := execute(t, "catalog", "store", input, "--encoding", "utf-8", "--catalog-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "indexed: 1, updated: 0, skipped: 0, failed: 0")

	out, err = execute(t, "catalog", "list", "--encoding", "utf-8", "--catalog-dir", dir, "--json", "--locale", "native")
	require.NoError(t, err)
	var entries []catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, input, entries[0].Source)

	output := filepath.Join(t.TempDir(), "all.tex")
	out, err = execute(t, "catalog", "render", output, "--encoding", "utf-8", "--catalog-dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "rendered 3 entries")
	assert.FileExists(t, output)

	out, err = execute(t, "catalog", "export", "--encoding", "utf-8", "--catalog-dir", dir, "--format", "xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "export.xlsx"))
}

func TestParseCapitals(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []string
		want    map[string]string
		wantErr bool
	}{
		{"default", []string{"Москва=М."}, map[string]string{"Москва": "М."}, false},
		{"several with spaces", []string{" Москва = М. ", "Санкт-Петербург=СПб."},
			map[string]string{"Москва": "М.", "Санкт-Петербург": "СПб."}, false},
		{"empty list disables", nil, map[string]string{}, false},
		{"missing separator", []string{"Москва"}, nil, true},
		{"empty abbreviation", []string{"Москва="}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCapitals(tt.pairs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
