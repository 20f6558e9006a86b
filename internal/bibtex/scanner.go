// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibtex reads and writes the brace-delimited @type{id, key=value}
// record format. It accepts the pragmatic subset the formatter needs:
// no @string macros, no crossref resolution, no comment semantics.
package bibtex

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/gostbib/pkg/types"
)

// ErrMalformedInput is matched by every SyntaxError.
var ErrMalformedInput = errors.New("malformed input")

// SyntaxError reports a missing delimiter or an unterminated entry.
// Records scanned before it remain valid.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("malformed input at offset %d: %s", e.Offset, e.Msg)
}

// Is lets errors.Is(err, ErrMalformedInput) succeed.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedInput
}

// Scanner yields records one at a time from the unconsumed suffix of the
// input text. Scanning stops at the end of input or at the first
// SyntaxError; no partial record is ever returned.
type Scanner struct {
	src  string
	pos  int
	rec  types.Record
	err  error
	done bool
}

// NewScanner returns a Scanner reading from text.
func NewScanner(text string) *Scanner {
	return &Scanner{src: text}
}

// Scan advances to the next record. It returns false when no further '@'
// is found or when the input is malformed; Err distinguishes the two.
func (s *Scanner) Scan() bool {
	if s.done {
		return false
	}

	at := strings.IndexByte(s.src[s.pos:], '@')
	if at < 0 {
		s.done = true
		return false
	}
	typeStart := s.pos + at + 1

	brace := strings.IndexByte(s.src[typeStart:], '{')
	if brace < 0 {
		return s.fail(typeStart, "missing '{' after entry type")
	}
	entryType := strings.ToLower(strings.TrimSpace(s.src[typeStart : typeStart+brace]))

	idStart := typeStart + brace + 1
	comma := strings.IndexByte(s.src[idStart:], ',')
	if comma < 0 {
		return s.fail(idStart, "missing ',' after citation id")
	}
	id := strings.TrimSpace(s.src[idStart : idStart+comma])

	bodyStart := idStart + comma + 1
	fields, end, ok := scanFields(s.src, bodyStart)
	if !ok {
		return s.fail(bodyStart, fmt.Sprintf("entry %q is not closed", id))
	}

	s.pos = end
	s.rec = types.Record{ID: id, Type: entryType, Fields: fields}
	return true
}

// Record returns the record produced by the last successful Scan.
func (s *Scanner) Record() types.Record {
	return s.rec
}

// Err returns the SyntaxError that stopped scanning, or nil.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) fail(offset int, msg string) bool {
	s.err = &SyntaxError{Offset: offset, Msg: msg}
	s.done = true
	return false
}

// scanFields reads key=value pairs starting just after the id comma until
// the brace that closes the entry. It returns the fields, the offset just
// past the closing brace, and false if the input ends first.
//
// Depth 1 is the entry body. The brace that opens a value (depth 1 to 2)
// and its partner are delimiters; braces nested deeper are copied into the
// value verbatim.
func scanFields(src string, from int) (map[string]string, int, bool) {
	fields := make(map[string]string)
	var key, value strings.Builder
	inValue := false
	depth := 1

	commit := func() {
		k := strings.ToLower(strings.TrimSpace(key.String()))
		v := strings.TrimSpace(strings.ReplaceAll(value.String(), "\t", " "))
		if k != "" {
			fields[k] = v
		}
		key.Reset()
		value.Reset()
		inValue = false
	}
	write := func(r rune) {
		if inValue {
			value.WriteRune(r)
		} else {
			key.WriteRune(r)
		}
	}

	for i, r := range src[from:] {
		switch r {
		case '\r', '\n':
		case ',':
			if depth == 1 {
				commit()
			} else {
				write(r)
			}
		case '=':
			if depth == 1 {
				inValue = true
			} else {
				write(r)
			}
		case '{':
			depth++
			if depth > 2 {
				write(r)
			}
		case '}':
			depth--
			switch {
			case depth == 0:
				commit()
				return fields, from + i + 1, true
			case depth >= 2:
				write(r)
			}
		default:
			write(r)
		}
	}

	return nil, len(src), false
}

// Parse scans all records in text. On malformed input it returns the
// records read before the problem together with a *SyntaxError.
func Parse(text string) ([]types.Record, error) {
	sc := NewScanner(text)
	var records []types.Record
	for sc.Scan() {
		records = append(records, sc.Record())
	}
	return records, sc.Err()
}
