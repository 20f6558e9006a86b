// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package locale decides whether a record belongs to the native (Russian)
// or the foreign bibliography bucket and holds the vocabulary each bucket
// is rendered with.
package locale

import (
	"regexp"

	"github.com/pdiddy/gostbib/pkg/types"
)

// Detector reports whether text is written, at least partly, in the local
// script.
type Detector interface {
	Detect(text string) bool
}

// DetectorFunc adapts an ordinary function to the Detector interface.
type DetectorFunc func(text string) bool

// Detect calls f(text).
func (f DetectorFunc) Detect(text string) bool { return f(text) }

// cyrillicRe matches the Russian alphabet in either case.
var cyrillicRe = regexp.MustCompile(`[А-Яа-яЁё]`)

// CyrillicDetector matches any Russian letter.
var CyrillicDetector Detector = DetectorFunc(cyrillicRe.MatchString)

// Classifier assigns records to a locale bucket.
type Classifier struct {
	Detector Detector
}

// NewClassifier returns a Classifier using d, or CyrillicDetector when d is nil.
func NewClassifier(d Detector) *Classifier {
	if d == nil {
		d = CyrillicDetector
	}
	return &Classifier{Detector: d}
}

// Classify returns Native for patents and for records whose title contains
// local-script text, and Foreign otherwise. Every record gets exactly one
// locale, including records without a title.
func (c *Classifier) Classify(r types.Record) types.Locale {
	if r.Type == "patent" || c.Detector.Detect(r.Title()) {
		return types.Native
	}
	return types.Foreign
}

// Vocabulary holds the abbreviations that differ between buckets.
type Vocabulary struct {
	// PagesTotal follows a total page count: "320 с.".
	PagesTotal string `json:"pages_total" yaml:"pages_total"`

	// PagesRange precedes a page range: "С. 10--20.".
	PagesRange string `json:"pages_range" yaml:"pages_range"`

	// Volume precedes a volume number: "Т. 3.".
	Volume string `json:"volume" yaml:"volume"`
}

var (
	nativeVocabulary  = Vocabulary{PagesTotal: "с.", PagesRange: "С.", Volume: "Т."}
	foreignVocabulary = Vocabulary{PagesTotal: "p.", PagesRange: "PP.", Volume: "Vol."}
)

// VocabularyFor returns the vocabulary of loc. Unknown locales get the
// foreign vocabulary.
func VocabularyFor(loc types.Locale) Vocabulary {
	if loc == types.Native {
		return nativeVocabulary
	}
	return foreignVocabulary
}
