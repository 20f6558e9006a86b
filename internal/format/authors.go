// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"strings"

	"github.com/pdiddy/gostbib/pkg/types"
)

// AuthorGroups splits an author field on commas and returns the trimmed,
// non-empty groups, one per person.
func AuthorGroups(field string) []string {
	var groups []string
	for _, g := range strings.Split(field, ",") {
		if g = strings.TrimSpace(g); g != "" {
			groups = append(groups, g)
		}
	}
	return groups
}

// ParseAuthors decomposes every group of an author field into
// "Last First [Middle]". Tokens past the third are ignored. The first group
// with fewer than two tokens aborts with an *AuthorError.
func ParseAuthors(field string) ([]types.Author, error) {
	groups := AuthorGroups(field)
	authors := make([]types.Author, 0, len(groups))
	for _, g := range groups {
		a, err := ParseAuthor(g)
		if err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}
	return authors, nil
}

// ParseAuthor decomposes one "Last First [Middle]" name.
func ParseAuthor(name string) (types.Author, error) {
	tokens := strings.FieldsFunc(name, func(r rune) bool { return r == ' ' })
	if len(tokens) < 2 {
		return types.Author{}, &AuthorError{Author: strings.TrimSpace(name)}
	}
	a := types.Author{Last: tokens[0], First: tokens[1]}
	if len(tokens) > 2 {
		a.Middle = tokens[2]
	}
	return a, nil
}

// headName renders the leading author as "Last, First Middle " with the
// trailing space that separates it from the title.
func headName(a types.Author) string {
	return a.Last + ", " + givenNames(a) + " "
}

// fullName renders "First Middle Last".
func fullName(a types.Author) string {
	return givenNames(a) + " " + a.Last
}

// inventorName renders "Last First Middle" as used for patents.
func inventorName(a types.Author) string {
	return a.Last + " " + givenNames(a)
}

func givenNames(a types.Author) string {
	if a.Middle == "" {
		return a.First
	}
	return a.First + " " + a.Middle
}

func joinAuthors(authors []types.Author, render func(types.Author) string) string {
	names := make([]string, len(authors))
	for i, a := range authors {
		names[i] = render(a)
	}
	return strings.Join(names, ", ")
}
