// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the gostbib pipeline.
// Implements: record parsing (Record), locale classification (Locale),
// entry formatting (Author, FormattedEntry, Warning).
package types

// Record is one bibliography entry as read from the input database.
// Fields keys are lowercased; values keep their original case.
type Record struct {
	// ID is the citation key (e.g. "ivanov2020"). Uniqueness is not enforced.
	ID string `json:"id" yaml:"id"`

	// Type is the lowercased entry tag (e.g. "article", "patent").
	Type string `json:"type" yaml:"type"`

	// Fields maps lowercased field names to trimmed values.
	Fields map[string]string `json:"fields" yaml:"fields"`
}

// Field returns the value stored under key, or "" when absent.
func (r Record) Field(key string) string {
	return r.Fields[key]
}

// Has reports whether key is present with a non-empty value. Empty values
// are treated as absent so that optional fields never produce dangling
// separators.
func (r Record) Has(key string) bool {
	return r.Fields[key] != ""
}

// Title returns the title field.
func (r Record) Title() string {
	return r.Fields["title"]
}

// Author is one name decomposed from a record's author field.
type Author struct {
	Last   string `json:"last" yaml:"last"`
	First  string `json:"first" yaml:"first"`
	Middle string `json:"middle,omitempty" yaml:"middle,omitempty"`
}

// Locale selects the vocabulary and output bucket of an entry.
type Locale string

const (
	Native  Locale = "native"
	Foreign Locale = "foreign"
)

// FormattedEntry pairs a citation id with its rendered bibliography line.
type FormattedEntry struct {
	ID     string `json:"id" yaml:"id"`
	Type   string `json:"type" yaml:"type"`
	Locale Locale `json:"locale" yaml:"locale"`
	Text   string `json:"text" yaml:"text"`
}

// WarningKind classifies a per-record diagnostic.
type WarningKind string

const (
	WarnMissingField    WarningKind = "missing-field"
	WarnMalformedAuthor WarningKind = "malformed-author"
	WarnUnsupportedType WarningKind = "unsupported-type"
	WarnMalformedInput  WarningKind = "malformed-input"
)

// Warning records why a record was skipped or parsing stopped early.
type Warning struct {
	// EntryID is the citation id of the offending record; empty for
	// malformed input that could not be attributed to a record.
	EntryID string      `json:"entry_id,omitempty" yaml:"entry_id,omitempty"`
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Message string      `json:"message" yaml:"message"`
}
