// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibliography runs the full conversion of a bibliography database
// into a thebibliography block: parse, classify into native and foreign
// buckets, format each record, and sort each bucket.
package bibliography

import (
	"io"

	"go.uber.org/zap"

	"github.com/pdiddy/gostbib/internal/bibtex"
	"github.com/pdiddy/gostbib/internal/collate"
	"github.com/pdiddy/gostbib/internal/format"
	"github.com/pdiddy/gostbib/internal/locale"
	"github.com/pdiddy/gostbib/pkg/types"
)

// Result is the outcome of processing one bibliography database.
type Result struct {
	// Native and Foreign hold the sorted entries of each bucket.
	Native  []types.FormattedEntry `json:"native" yaml:"native"`
	Foreign []types.FormattedEntry `json:"foreign" yaml:"foreign"`

	// Records holds every parsed record in input order.
	Records []types.Record `json:"-" yaml:"-"`

	// Warnings lists skipped records and parse problems in the order met.
	Warnings []types.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Parsed returns the number of records read from the input.
func (r Result) Parsed() int { return len(r.Records) }

// Rendered returns the number of formatted entries across both buckets.
func (r Result) Rendered() int { return len(r.Native) + len(r.Foreign) }

// Skipped returns the number of parsed records that were not rendered.
func (r Result) Skipped() int { return r.Parsed() - r.Rendered() }

// OK reports whether every record was rendered and the input was well formed.
func (r Result) OK() bool { return len(r.Warnings) == 0 }

// Entries returns native entries followed by foreign entries.
func (r Result) Entries() []types.FormattedEntry {
	all := make([]types.FormattedEntry, 0, r.Rendered())
	all = append(all, r.Native...)
	return append(all, r.Foreign...)
}

// Render writes the thebibliography block, native bucket first.
func (r Result) Render(w io.Writer) error {
	return collate.Assemble(w, r.Native, r.Foreign)
}

// Engine wires the parser, classifier and formatter together.
type Engine struct {
	classifier *locale.Classifier
	formatter  *format.Formatter
	logger     *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger that receives per-record diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCapitals sets the address abbreviation table.
func WithCapitals(capitals map[string]string) Option {
	return func(e *Engine) { e.formatter = format.New(capitals) }
}

// WithDetector replaces the local-script detector used for classification.
func WithDetector(d locale.Detector) Option {
	return func(e *Engine) { e.classifier = locale.NewClassifier(d) }
}

// NewEngine returns an Engine with the default classifier, formatter and a
// no-op logger, adjusted by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		classifier: locale.NewClassifier(nil),
		formatter:  format.New(nil),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process converts the bibliography database in text. It never fails as a
// whole: malformed input stops parsing but keeps the records read so far,
// and records that cannot be formatted are skipped. Both are reported in
// Result.Warnings.
func (e *Engine) Process(text string) Result {
	var res Result

	records, err := bibtex.Parse(text)
	res.Records = records
	if err != nil {
		e.logger.Error("malformed input, remaining text ignored",
			zap.Error(err), zap.Int("parsed", len(records)))
		res.Warnings = append(res.Warnings, types.Warning{
			Kind:    types.WarnMalformedInput,
			Message: err.Error(),
		})
	}

	var native, foreign []types.Record
	for _, r := range records {
		if e.classifier.Classify(r) == types.Native {
			native = append(native, r)
		} else {
			foreign = append(foreign, r)
		}
	}

	res.Native = e.formatBucket(native, types.Native, &res.Warnings)
	res.Foreign = e.formatBucket(foreign, types.Foreign, &res.Warnings)

	collate.Sort(res.Native)
	collate.Sort(res.Foreign)
	return res
}

func (e *Engine) formatBucket(records []types.Record, loc types.Locale, warnings *[]types.Warning) []types.FormattedEntry {
	entries := make([]types.FormattedEntry, 0, len(records))
	for _, r := range records {
		e.logger.Info("processing entry", zap.String("id", r.ID), zap.String("type", r.Type))

		text, err := e.formatter.Format(r, loc)
		if err != nil {
			e.logger.Warn("entry skipped", zap.String("id", r.ID), zap.Error(err))
			*warnings = append(*warnings, types.Warning{
				EntryID: r.ID,
				Kind:    format.Kind(err),
				Message: err.Error(),
			})
			continue
		}
		entries = append(entries, types.FormattedEntry{ID: r.ID, Type: r.Type, Locale: loc, Text: text})
	}
	return entries
}
