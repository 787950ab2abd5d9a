package asm

import (
	"fmt"
	"regexp"
	"strings"
)

// Action is what a matching rule does to a line.
type Action int

const (
	// Discard removes the line unless a Keep rule also matches.
	Discard Action = iota
	// Keep re-admits the line even when a Discard rule matched.
	Keep
)

func (a Action) String() string {
	if a == Keep {
		return "keep"
	}
	return "discard"
}

// ParseAction parses "discard" or "keep".
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "discard":
		return Discard, nil
	case "keep":
		return Keep, nil
	}
	return Discard, fmt.Errorf("unknown rule action %q (want discard or keep)", s)
}

// Rule is one entry of the line classification table. Patterns are
// matched at the start of the line only; they need not match the whole
// line.
type Rule struct {
	Name    string
	Kind    LineKind
	Action  Action
	Pattern *regexp.Regexp
}

// NewRule compiles pattern into a start-anchored rule.
func NewRule(name, pattern string, action Action, kind LineKind) (Rule, error) {
	re, err := regexp.Compile(`^(?:` + pattern + `)`)
	if err != nil {
		return Rule{}, fmt.Errorf("rule %q: %w", name, err)
	}
	return Rule{Name: name, Kind: kind, Action: action, Pattern: re}, nil
}

func mustRule(name, pattern string, action Action, kind LineKind) Rule {
	r, err := NewRule(name, pattern, action, kind)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultAnnotations are stripped from every line before classification.
// "@GOTPCREL" is the Mach-O GOT-relative relocation suffix.
var DefaultAnnotations = []string{"@GOTPCREL"}

// fnEntryRe matches a top-level label that begins a function body.
var fnEntryRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*:`)

// RuleSet is the ordered rule table plus the annotations stripped before
// classification. It is passed into Process by value of its pointer and
// never mutated there, so one RuleSet may serve concurrent calls.
type RuleSet struct {
	Rules       []Rule
	Annotations []string
}

// DefaultRules returns a fresh copy of the built-in rule table.
func DefaultRules() *RuleSet {
	return &RuleSet{
		Rules: []Rule{
			mustRule("directive", `\s+\.`, Discard, KindDirective),
			mustRule("inline-asm", `\s*#(NO_APP|APP)$`, Discard, KindInlineAsmMarker),
			mustRule("comment", `\s*#`, Discard, KindComment),
			mustRule("global", `\s*\.globa?l\s*([.a-zA-Z_][a-zA-Z0-9$_.]*)`, Discard, KindGlobalSymbol),
			mustRule("data", `\s*\.(string|asciz|ascii|[1248]?byte|short|word|long|quad|value|zero)`, Discard, KindDataDeclaration),
		},
		Annotations: append([]string(nil), DefaultAnnotations...),
	}
}

// Add appends r to the table. Discard rules added later only decide the
// kind of lines no earlier discard rule matched.
func (rs *RuleSet) Add(r Rule) {
	rs.Rules = append(rs.Rules, r)
}

// Clone returns a copy that can be extended without affecting rs.
func (rs *RuleSet) Clone() *RuleSet {
	return &RuleSet{
		Rules:       append([]Rule(nil), rs.Rules...),
		Annotations: append([]string(nil), rs.Annotations...),
	}
}

// Strip removes every configured annotation from line.
func (rs *RuleSet) Strip(line string) string {
	for _, a := range rs.Annotations {
		if a != "" {
			line = strings.ReplaceAll(line, a, "")
		}
	}
	return line
}

// Classification is the verdict for a single line.
type Classification struct {
	Kind LineKind
	// Rule names the rule that decided the verdict; empty when no rule matched.
	Rule string
	// Emit is false only when a discard rule matched and no keep rule did.
	Emit bool
	// Overrode is true when a keep rule retained a line a discard rule
	// matched.
	Overrode bool
}

// Classify runs line through the table. The first matching discard rule
// fixes the line's kind; any matching keep rule overrides the discard.
// Lines no rule claims are local label declarations, function entries
// or ordinary instructions, and are always emitted.
func (rs *RuleSet) Classify(line string) Classification {
	var discard, keep *Rule
	for i := range rs.Rules {
		r := &rs.Rules[i]
		if !r.Pattern.MatchString(line) {
			continue
		}
		switch r.Action {
		case Discard:
			if discard == nil {
				discard = r
			}
		case Keep:
			if keep == nil {
				keep = r
			}
		}
		if discard != nil && keep != nil {
			break
		}
	}

	switch {
	case keep != nil && discard != nil:
		return Classification{Kind: discard.Kind, Rule: keep.Name, Emit: true, Overrode: true}
	case keep != nil:
		return Classification{Kind: structuralKind(line, keep.Kind), Rule: keep.Name, Emit: true}
	case discard != nil:
		return Classification{Kind: discard.Kind, Rule: discard.Name, Emit: false}
	}
	return Classification{Kind: structuralKind(line, KindInstruction), Emit: true}
}

func structuralKind(line string, fallback LineKind) LineKind {
	if localLabelDeclRe.MatchString(line) {
		return KindLabelDeclaration
	}
	if fnEntryRe.MatchString(line) {
		return KindFunctionEntry
	}
	return fallback
}

// IsFunctionEntry reports whether line starts a function body.
func IsFunctionEntry(line string) bool {
	return fnEntryRe.MatchString(line)
}
