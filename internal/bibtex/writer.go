// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibtex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/gostbib/pkg/types"
)

// leadingFields are written first, in this order; the rest follow sorted.
var leadingFields = []string{"author", "title"}

// Marshal writes records back as normalized BibTeX: lowercased keys,
// brace-delimited values, author and title first, remaining fields sorted.
// Parsing the output yields the same records.
func Marshal(records []types.Record) string {
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "@%s{%s,\n", r.Type, r.ID)
		keys := orderedKeys(r.Fields)
		for i, k := range keys {
			sep := ","
			if i == len(keys)-1 {
				sep = ""
			}
			fmt.Fprintf(&b, "  %s = {%s}%s\n", k, r.Fields[k], sep)
		}
		fmt.Fprintf(&b, "}\n\n")
	}
	return b.String()
}

func orderedKeys(fields map[string]string) []string {
	keys := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(leadingFields))
	for _, k := range leadingFields {
		if _, ok := fields[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0, len(fields))
	for k := range fields {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}
