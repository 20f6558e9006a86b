// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format renders one bibliography record as a GOST-style
// bibliography line in the LaTeX subset used by thebibliography:
// \url, \No and the "~---" dash.
package format

import (
	"strings"

	"github.com/pdiddy/gostbib/internal/locale"
	"github.com/pdiddy/gostbib/pkg/types"
)

const (
	dash      = "~---"
	accessURL = "Режим доступа: "
)

// DefaultCapitals abbreviates the capital in the imprint.
var DefaultCapitals = map[string]string{
	"Москва": "М.",
}

// rule describes how one entry type is rendered.
type rule struct {
	// required fields must be present and non-empty.
	required []string

	// decompose requests parsing every author before render is called.
	decompose bool

	render func(e *entry) string
}

var rules = map[string]rule{
	"article":    {required: []string{"author", "journal", "year"}, decompose: true, render: renderArticle},
	"book":       {required: []string{"author", "year"}, decompose: true, render: renderBook},
	"conference": {required: []string{"author", "booktitle", "year"}, decompose: true, render: renderConference},
	"manual":     {required: []string{"author", "year"}, render: renderManual},
	"patent": {
		required: []string{
			"author", "type", "number", "assignee", "code",
			"dayfiled", "monthfiled", "yearfiled", "day", "month", "year",
		},
		decompose: true,
		render:    renderPatent,
	},
	"standard":   {required: []string{"institution", "year"}, render: renderStandard},
	"phdthesis":  {required: []string{"author", "type", "fullname", "year"}, decompose: true, render: renderThesis},
	"electronic": {required: []string{"author", "url"}, render: renderElectronic},
}

// SupportedTypes returns the entry types that have a formatting rule.
func SupportedTypes() []string {
	return []string{"article", "book", "conference", "electronic", "manual", "patent", "phdthesis", "standard"}
}

// Formatter renders records. It is safe for concurrent use once built.
type Formatter struct {
	capitals map[string]string
}

// New returns a Formatter that abbreviates addresses through capitals, or
// through DefaultCapitals when capitals is nil.
func New(capitals map[string]string) *Formatter {
	if capitals == nil {
		capitals = DefaultCapitals
	}
	return &Formatter{capitals: capitals}
}

// Format renders r with the vocabulary of loc. It returns a
// *MissingFieldError, *AuthorError, or *UnsupportedTypeError when the
// record cannot be rendered; the record is then meant to be skipped.
func (f *Formatter) Format(r types.Record, loc types.Locale) (string, error) {
	if !r.Has("title") {
		return "", &MissingFieldError{Field: "title"}
	}

	ru, ok := rules[r.Type]
	if !ok {
		return "", &UnsupportedTypeError{Type: r.Type}
	}

	for _, field := range ru.required {
		if !r.Has(field) {
			return "", &MissingFieldError{Field: field}
		}
	}

	e := &entry{rec: r, vocab: locale.VocabularyFor(loc), capitals: f.capitals}
	e.groups = AuthorGroups(r.Field("author"))
	if r.Has("author") && len(e.groups) == 0 {
		return "", &MissingFieldError{Field: "author"}
	}
	if ru.decompose || (r.Type == "electronic" && len(e.groups) > 1) {
		authors, err := ParseAuthors(r.Field("author"))
		if err != nil {
			return "", err
		}
		e.authors = authors
	}

	var b strings.Builder
	b.WriteString(ru.render(e))
	b.WriteString(e.identifier())
	return b.String(), nil
}

// entry carries one record through rendering.
type entry struct {
	rec      types.Record
	vocab    locale.Vocabulary
	capitals map[string]string
	groups   []string
	authors  []types.Author
}

func (e *entry) get(key string) string { return e.rec.Field(key) }
func (e *entry) has(key string) bool   { return e.rec.Has(key) }

// address returns the address with a known capital abbreviated.
func (e *entry) address() string {
	addr := e.get("address")
	if short, ok := e.capitals[addr]; ok {
		return short
	}
	return addr
}

// imprint renders "Address : Publisher, Year." with each part optional
// except the year.
func (e *entry) imprint() string {
	var b strings.Builder
	switch {
	case e.has("address"):
		b.WriteString(e.address())
		if e.has("publisher") {
			b.WriteString(" : " + e.get("publisher"))
		}
		b.WriteString(", ")
	case e.has("publisher"):
		b.WriteString(e.get("publisher") + ", ")
	}
	b.WriteString(e.get("year") + ".")
	return b.String()
}

// totalPages renders "~--- 320 с." when pages is set.
func (e *entry) totalPages() string {
	if !e.has("pages") {
		return ""
	}
	return dash + " " + e.get("pages") + " " + e.vocab.PagesTotal
}

// pageRange renders "~--- С. 10--20." when pages is set.
func (e *entry) pageRange() string {
	if !e.has("pages") {
		return ""
	}
	return dash + " " + e.vocab.PagesRange + " " + e.get("pages") + "."
}

func (e *entry) url() string {
	return dash + " " + accessURL + `\url{` + e.get("url") + "}."
}

// identifier renders the ISBN, or else the ISSN, for records without a URL.
func (e *entry) identifier() string {
	if e.has("url") {
		return ""
	}
	switch {
	case e.has("isbn"):
		return dash + " ISBN " + e.get("isbn") + "."
	case e.has("issn"):
		return dash + " ISSN " + e.get("issn") + "."
	}
	return ""
}

// byline renders "Last, First Middle Title / First Middle Last, ..." which
// opens articles, books, conference papers and multi-author web resources.
func (e *entry) byline(suffix string) string {
	return headName(e.authors[0]) + e.get("title") + suffix + " / " + joinAuthors(e.authors, fullName)
}
