// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collate orders formatted entries within a locale bucket and
// assembles the thebibliography block.
package collate

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/pdiddy/gostbib/pkg/types"
)

const (
	beginBlock = `\begin{thebibliography}{999}`
	endBlock   = `\end{thebibliography}`
)

// Sort orders a bucket by ordinal comparison of the rendered text. Entries
// with identical text keep their input order.
func Sort(bucket []types.FormattedEntry) {
	sort.SliceStable(bucket, func(i, j int) bool {
		return bucket[i].Text < bucket[j].Text
	})
}

// Assemble writes the bibliography block: the opening marker, each bucket
// in order (native first by convention) as a \bibitem line, the entry text
// and a blank line, then the closing marker. Buckets are written as given;
// call Sort first.
func Assemble(w io.Writer, buckets ...[]types.FormattedEntry) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, beginBlock)
	fmt.Fprintln(bw)
	for _, bucket := range buckets {
		for _, e := range bucket {
			fmt.Fprintf(bw, "\\bibitem{%s}\n%s\n\n", e.ID, e.Text)
		}
	}
	fmt.Fprintln(bw, endBlock)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing bibliography: %w", err)
	}
	return nil
}
