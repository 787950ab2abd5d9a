package asm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMixedLabelConvention is returned in strict mode when a document
// declares local labels both with and without the leading dot.
var ErrMixedLabelConvention = errors.New("mixed local label conventions")

// Options controls a single Process call.
type Options struct {
	// Rules is the classification table. Nil means DefaultRules().
	Rules *RuleSet
	// Separators inserts a blank line before each function entry label.
	Separators bool
	// Strict turns the mixed-convention diagnostic into an error.
	Strict bool
}

// DefaultOptions returns the built-in rules with separators enabled.
func DefaultOptions() Options {
	return Options{Rules: DefaultRules(), Separators: true}
}

// Stats summarizes what a Process call did.
type Stats struct {
	InputLines    int              `json:"input_lines"`
	OutputLines   int              `json:"output_lines"`
	Emitted       map[LineKind]int `json:"emitted"`
	Discarded     map[LineKind]int `json:"discarded"`
	DeadLabels    int              `json:"dead_labels"`
	KeepOverrides int              `json:"keep_overrides"`
	Separators    int              `json:"separators"`
	Identifiers   int              `json:"identifiers"`
}

// TotalDiscarded is the number of input lines that did not reach the output.
func (s Stats) TotalDiscarded() int {
	n := 0
	for _, c := range s.Discarded {
		n += c
	}
	return n
}

// Result is the normalized document plus what was learned producing it.
type Result struct {
	Text   string      `json:"-"`
	Stats  Stats       `json:"stats"`
	Labels LabelReport `json:"labels"`
}

// Normalize runs Process with DefaultOptions. It cannot fail.
func Normalize(doc string) string {
	res, _ := Process(doc, DefaultOptions())
	return res.Text
}

// Process normalizes doc:
//
//  1. local label declarations are normalized (NormalizeLabels);
//  2. the used label set is computed over the normalized text;
//  3. one pass over the lines drops dead labels, strips annotations,
//     filters through the rule table, inserts function separators and
//     canonicalizes identifiers.
//
// The output has one "\n" after every emitted line. Process is pure:
// the same doc and options always give the same result.
func Process(doc string, opts Options) (*Result, error) {
	rules := opts.Rules
	if rules == nil {
		rules = DefaultRules()
	}

	normalized, report := NormalizeLabels(doc)
	if report.Mixed && opts.Strict {
		return nil, fmt.Errorf("%w: sampled %q from %s", ErrMixedLabelConvention,
			report.Sampled, strings.Join(report.Declared, ", "))
	}
	used := FindUsedLabels(normalized)

	res := &Result{Labels: report}
	stats := &res.Stats
	stats.Emitted = make(map[LineKind]int)
	stats.Discarded = make(map[LineKind]int)

	var sb strings.Builder
	sb.Grow(len(normalized))
	lastBlank := false

	for _, line := range splitLines(normalized) {
		stats.InputLines++

		if name, ok := localLabelName(line); ok && !used.Has(name) {
			stats.DeadLabels++
			stats.Discarded[KindLabelDeclaration]++
			continue
		}

		line = rules.Strip(line)
		c := rules.Classify(line)
		if !c.Emit {
			stats.Discarded[c.Kind]++
			continue
		}
		if c.Overrode {
			stats.KeepOverrides++
		}

		if opts.Separators && IsFunctionEntry(line) && sb.Len() != 0 && !lastBlank {
			sb.WriteByte('\n')
			stats.Separators++
			stats.OutputLines++
		}

		out, n := canonicalizeLine(line)
		stats.Identifiers += n
		stats.Emitted[c.Kind]++
		stats.OutputLines++
		sb.WriteString(out)
		sb.WriteByte('\n')
		lastBlank = strings.TrimSpace(out) == ""
	}

	res.Text = sb.String()
	return res, nil
}
