package asm

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// jumpRefRe matches a jump-family instruction whose operand is a local
	// label, e.g. "\tjne .LBB0_3". Only the start of the line is anchored.
	jumpRefRe = regexp.MustCompile(`^\s*j[a-z]+\s+\.L([a-zA-Z0-9][a-zA-Z0-9_]*)`)

	// anyLabelDeclRe matches a local label declaration with or without the
	// leading dot: "L3:" or ".L3:".
	anyLabelDeclRe = regexp.MustCompile(`^\.?L[a-zA-Z0-9][a-zA-Z0-9_]*:`)

	// localLabelDeclRe matches a canonical ".L" declaration.
	localLabelDeclRe = regexp.MustCompile(`^\.L[a-zA-Z0-9][a-zA-Z0-9_]*:`)
)

// LabelSet is a set of canonical ".L" label names.
type LabelSet map[string]struct{}

// Has reports whether name is in the set.
func (s LabelSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the set members in lexical order.
func (s LabelSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FindUsedLabels returns every local label referenced as the operand of a
// jump instruction in doc. At most one reference per line is considered.
func FindUsedLabels(doc string) LabelSet {
	used := make(LabelSet)
	for _, line := range splitLines(doc) {
		if m := jumpRefRe.FindStringSubmatch(line); m != nil {
			used[".L"+m[1]] = struct{}{}
		}
	}
	return used
}

// LabelReport describes what NormalizeLabels decided for a document.
type LabelReport struct {
	// Declared holds the distinct declared names, as written, in document order.
	Declared []string `json:"declared,omitempty"`
	// Sampled is the declaration the convention decision was based on.
	Sampled string `json:"sampled,omitempty"`
	// Rewritten is true when declarations were rewritten to the dotted form.
	Rewritten bool `json:"rewritten"`
	// Mixed is true when dotted and undotted declarations coexist. The
	// output for such a document is whatever the single sample produced.
	Mixed bool `json:"mixed"`
}

// NormalizeLabels rewrites local label declarations, and the references
// to them, into the dotted ".L" form.
//
// The convention is decided from a single declaration: the first one in
// document order. If it is undotted every declared name is rewritten;
// if it is already dotted the document is returned unchanged. Documents
// that mix both conventions are not repaired. Report.Mixed flags them.
func NormalizeLabels(doc string) (string, LabelReport) {
	var report LabelReport
	seen := make(map[string]bool)
	var dotted, undotted bool

	for _, line := range splitLines(doc) {
		decl := anyLabelDeclRe.FindString(line)
		if decl == "" {
			continue
		}
		name := strings.TrimSuffix(decl, ":")
		if seen[name] {
			continue
		}
		seen[name] = true
		report.Declared = append(report.Declared, name)
		if strings.HasPrefix(name, ".") {
			dotted = true
		} else {
			undotted = true
		}
	}

	if len(report.Declared) == 0 {
		return doc, report
	}

	report.Mixed = dotted && undotted
	report.Sampled = report.Declared[0]
	if strings.HasPrefix(report.Sampled, ".") {
		return doc, report
	}

	for _, name := range report.Declared {
		doc = rewriteLabel(doc, name)
	}
	report.Rewritten = true
	return doc, report
}

// rewriteLabel prefixes every occurrence of name with a dot where it is
// preceded by the start of the document or whitespace and followed by a
// colon or whitespace. The name is used as a pattern verbatim; declared
// names only contain [.A-Za-z0-9_], so the only metacharacter is ".".
func rewriteLabel(doc, name string) string {
	re, err := regexp.Compile(`(^|\s+)` + name)
	if err != nil {
		return doc
	}

	var sb strings.Builder
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(doc, -1) {
		end := m[1]
		if end >= len(doc) || !endsLabelRef(doc[end]) {
			continue
		}
		sb.WriteString(doc[last:m[3]])
		sb.WriteByte('.')
		sb.WriteString(name)
		last = end
	}
	if last == 0 {
		return doc
	}
	sb.WriteString(doc[last:])
	return sb.String()
}

func endsLabelRef(c byte) bool {
	return c == ':' || isSpace(c)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// localLabelName returns the ".L" name declared on line, if any.
func localLabelName(line string) (string, bool) {
	decl := localLabelDeclRe.FindString(line)
	if decl == "" {
		return "", false
	}
	return strings.TrimSuffix(decl, ":"), true
}

// EliminateDeadLabels drops every ".L" declaration line that no jump in
// doc references. All other lines are returned untouched.
func EliminateDeadLabels(doc string) string {
	used := FindUsedLabels(doc)
	var sb strings.Builder
	for _, line := range splitLines(doc) {
		if name, ok := localLabelName(line); ok && !used.Has(name) {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}
