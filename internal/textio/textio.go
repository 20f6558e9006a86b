// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textio reads and writes whole text files in single-byte Cyrillic
// code pages or UTF-8.
package textio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is the code page bibliography databases are kept in.
const DefaultEncoding = "windows-1251"

var encodings = map[string]encoding.Encoding{
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"koi8-r":       charmap.KOI8R,
	"ibm866":       charmap.CodePage866,
	"cp866":        charmap.CodePage866,
	"utf-8":        unicode.UTF8BOM,
	"utf8":         unicode.UTF8BOM,
}

// Encodings lists the accepted encoding names.
func Encodings() []string {
	names := make([]string, 0, len(encodings))
	for name := range encodings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the encoding registered under name (case-insensitive).
// An empty name selects DefaultEncoding.
func Lookup(name string) (encoding.Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	enc, ok := encodings[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown encoding %q (supported: %s)", name, strings.Join(Encodings(), ", "))
	}
	return enc, nil
}

// ReadFile reads path and decodes it from the named encoding.
func ReadFile(path, encodingName string) (string, error) {
	enc, err := Lookup(encodingName)
	if err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	text, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", fmt.Errorf("decoding %s as %s: %w", path, encodingName, err)
	}
	return string(text), nil
}

// WriteFile encodes text in the named encoding and writes it to path.
// Characters the code page cannot represent are an error.
func WriteFile(path, encodingName, text string) error {
	enc, err := Lookup(encodingName)
	if err != nil {
		return err
	}
	if enc == unicode.UTF8BOM {
		// Decoding strips a BOM; output is written without one.
		enc = unicode.UTF8
	}
	data, _, err := transform.Bytes(enc.NewEncoder(), []byte(text))
	if err != nil {
		return fmt.Errorf("encoding %s as %s: %w", path, encodingName, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// OutputPath returns the default output path for input: the same path with
// its extension replaced by ".tex".
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".tex"
}
