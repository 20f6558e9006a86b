// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/gostbib/pkg/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []types.Record
		wantErr bool
	}{
		{
			name:  "single article",
			input: `@article{k1, author={Ivanov Ivan}, title={Заголовок}, journal={Журнал}, year={2020}}`,
			want: []types.Record{{
				ID:   "k1",
				Type: "article",
				Fields: map[string]string{
					"author":  "Ivanov Ivan",
					"title":   "Заголовок",
					"journal": "Журнал",
					"year":    "2020",
				},
			}},
		},
		{
			name:  "type and keys are lowercased, values keep case",
			input: "@ARTICLE{ Key2 ,\n  TITLE = {Deep Learning},\n  Year = {2015}\n}",
			want: []types.Record{{
				ID:     "Key2",
				Type:   "article",
				Fields: map[string]string{"title": "Deep Learning", "year": "2015"},
			}},
		},
		{
			name:  "nested braces are copied verbatim",
			input: `@book{b, title={The {GPU} Book}, year={2001}}`,
			want: []types.Record{{
				ID:     "b",
				Type:   "book",
				Fields: map[string]string{"title": "The {GPU} Book", "year": "2001"},
			}},
		},
		{
			name:  "commas and equals inside braces belong to the value",
			input: `@electronic{e, title={A, B = C}, url={http://x.org/?a=1,2}}`,
			want: []types.Record{{
				ID:     "e",
				Type:   "electronic",
				Fields: map[string]string{"title": "A, B = C", "url": "http://x.org/?a=1,2"},
			}},
		},
		{
			name:  "tabs become spaces and line breaks are dropped",
			input: "@misc{m, title={Line\tone\r\nline two}}",
			want: []types.Record{{
				ID:     "m",
				Type:   "misc",
				Fields: map[string]string{"title": "Line oneline two"},
			}},
		},
		{
			name:  "unbraced values and trailing comma",
			input: "@book{n, year = 1999,\n}",
			want: []types.Record{{
				ID:     "n",
				Type:   "book",
				Fields: map[string]string{"year": "1999"},
			}},
		},
		{
			name:  "text between entries is ignored",
			input: "preamble\n@book{a, title={A}}\njunk\n@book{b, title={B}}\ntrailer",
			want: []types.Record{
				{ID: "a", Type: "book", Fields: map[string]string{"title": "A"}},
				{ID: "b", Type: "book", Fields: map[string]string{"title": "B"}},
			},
		},
		{
			name:  "repeated key keeps the last value",
			input: `@book{r, title={First}, title={Second}}`,
			want: []types.Record{{
				ID:     "r",
				Type:   "book",
				Fields: map[string]string{"title": "Second"},
			}},
		},
		{
			name:  "no entries",
			input: "just some text",
			want:  nil,
		},
		{
			name:    "missing brace keeps earlier records",
			input:   "@book{a, title={A}}\n@book",
			want:    []types.Record{{ID: "a", Type: "book", Fields: map[string]string{"title": "A"}}},
			wantErr: true,
		},
		{
			name:    "missing id comma",
			input:   "@book{a}",
			want:    nil,
			wantErr: true,
		},
		{
			name:    "unterminated entry is dropped",
			input:   "@book{a, title={A}}\n@book{b, title={B}",
			want:    []types.Record{{ID: "a", Type: "book", Fields: map[string]string{"title": "A"}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrMalformedInput), "error %v should match ErrMalformedInput", err)
			} else {
				require.NoError(t, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScannerIsLazy(t *testing.T) {
	sc := NewScanner("@book{a, title={A}}\n@book{b, title={B}}\n@book")

	require.True(t, sc.Scan())
	assert.Equal(t, "a", sc.Record().ID)
	assert.NoError(t, sc.Err())

	require.True(t, sc.Scan())
	assert.Equal(t, "b", sc.Record().ID)

	assert.False(t, sc.Scan())
	var synErr *SyntaxError
	require.ErrorAs(t, sc.Err(), &synErr)
	assert.Contains(t, synErr.Msg, "missing '{'")

	// Further calls stay exhausted.
	assert.False(t, sc.Scan())
}

func TestMarshalRoundTrip(t *testing.T) {
	records := []types.Record{
		{
			ID:   "k1",
			Type: "article",
			Fields: map[string]string{
				"year":    "2020",
				"journal": "Журнал",
				"title":   "The {GPU} Заголовок",
				"author":  "Ivanov Ivan, Petrov Petr",
			},
		},
		{ID: "s", Type: "standard", Fields: map[string]string{"title": "ГОСТ 7.1", "institution": "Росстандарт"}},
	}

	out := Marshal(records)
	assert.Contains(t, out, "@article{k1,\n  author = {Ivanov Ivan, Petrov Petr},\n  title = {The {GPU} Заголовок},\n  journal = {Журнал},\n  year = {2020}\n}")

	got, err := Parse(out)
	require.NoError(t, err)
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
