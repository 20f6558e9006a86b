package export

import (
	"io"
	"strconv"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/gostbib/internal/format"
	"github.com/pdiddy/gostbib/pkg/types"
)

// CSLItem represents a bibliographic entry in CSL (Citation Style Language)
// format. The field names and structure follow the CSL-JSON/CSL-YAML schema
// so that output is consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id"`
	Type           string    `yaml:"type"`
	Title          string    `yaml:"title"`
	Author         []CSLName `yaml:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty"`
	Publisher      string    `yaml:"publisher,omitempty"`
	PublisherPlace string    `yaml:"publisher-place,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty"`
	Volume         string    `yaml:"volume,omitempty"`
	Issue          string    `yaml:"issue,omitempty"`
	Page           string    `yaml:"page,omitempty"`
	Number         string    `yaml:"number,omitempty"`
	URL            string    `yaml:"URL,omitempty"`
	ISBN           string    `yaml:"ISBN,omitempty"`
	ISSN           string    `yaml:"ISSN,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// cslTypes maps entry types to CSL item types.
var cslTypes = map[string]string{
	"article":    "article-journal",
	"book":       "book",
	"conference": "paper-conference",
	"manual":     "report",
	"patent":     "patent",
	"standard":   "standard",
	"phdthesis":  "thesis",
	"electronic": "webpage",
}

// WriteCSL writes records as a CSL-YAML list to w.
func WriteCSL(w io.Writer, records []types.Record) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

// toCSLItem converts a Record to a CSLItem.
func toCSLItem(r types.Record) CSLItem {
	typ, ok := cslTypes[r.Type]
	if !ok {
		typ = "document"
	}
	item := CSLItem{
		ID:             r.ID,
		Type:           typ,
		Title:          r.Title(),
		ContainerTitle: r.Field("journal"),
		Publisher:      r.Field("publisher"),
		PublisherPlace: r.Field("address"),
		Volume:         r.Field("volume"),
		Issue:          r.Field("number"),
		Page:           r.Field("pages"),
		URL:            r.Field("url"),
		ISBN:           r.Field("isbn"),
		ISSN:           r.Field("issn"),
	}

	switch r.Type {
	case "conference":
		item.ContainerTitle = r.Field("booktitle")
	case "patent":
		item.Number = r.Field("number")
		item.Issue = ""
	case "standard":
		item.Publisher = r.Field("institution")
	}

	for _, g := range format.AuthorGroups(r.Field("author")) {
		item.Author = append(item.Author, parseAuthorName(g))
	}

	if year, err := strconv.Atoi(r.Field("year")); err == nil {
		parts := []int{year}
		if month, err := strconv.Atoi(r.Field("month")); err == nil {
			parts = append(parts, month)
			if day, err := strconv.Atoi(r.Field("day")); err == nil {
				parts = append(parts, day)
			}
		}
		item.Issued = &CSLDate{DateParts: [][]int{parts}}
	}

	return item
}

// parseAuthorName splits a "Last First Middle" name into CSL family/given
// parts. Names that do not decompose (organizations, single tokens) use the
// literal field.
func parseAuthorName(name string) CSLName {
	a, err := format.ParseAuthor(name)
	if err != nil {
		return CSLName{Literal: name}
	}
	given := a.First
	if a.Middle != "" {
		given += " " + a.Middle
	}
	return CSLName{Family: a.Last, Given: given}
}
