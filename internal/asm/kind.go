// Package asm normalizes compiler assembly output into a canonical form so
// that two compilations of the same source can be diffed line by line.
//
// The pipeline works lexically on lines and tokens:
//
//  1. Local label declarations are normalized to the dotted ".L" form.
//  2. Declarations that no jump references are dropped.
//  3. Directives, comments and data definitions are filtered by an ordered
//     rule table.
//  4. Platform name decoration (the Mach-O leading underscore) is removed
//     from identifiers.
//
// Process is the entry point. It never fails on input it does not
// recognize: unknown lines pass through unchanged.
package asm

import (
	"fmt"
	"strings"
)

// LineKind classifies a single line of assembly.
type LineKind int

const (
	// KindInstruction is any line no rule claims. It is always emitted.
	KindInstruction LineKind = iota
	// KindDirective is an indented assembler directive such as "\t.p2align 4".
	KindDirective
	// KindInlineAsmMarker is a "#APP" or "#NO_APP" region marker.
	KindInlineAsmMarker
	// KindComment is a comment-only line.
	KindComment
	// KindGlobalSymbol is a ".globl"/".global" export directive.
	KindGlobalSymbol
	// KindDataDeclaration is a data definition such as ".asciz" or ".quad".
	KindDataDeclaration
	// KindLabelDeclaration is a local ".L" label declaration.
	KindLabelDeclaration
	// KindFunctionEntry is a top-level label that starts a function body.
	KindFunctionEntry
)

// AllKinds lists every LineKind in declaration order.
var AllKinds = []LineKind{
	KindInstruction,
	KindDirective,
	KindInlineAsmMarker,
	KindComment,
	KindGlobalSymbol,
	KindDataDeclaration,
	KindLabelDeclaration,
	KindFunctionEntry,
}

var kindNames = map[LineKind]string{
	KindInstruction:      "instruction",
	KindDirective:        "directive",
	KindInlineAsmMarker:  "inline-asm-marker",
	KindComment:          "comment",
	KindGlobalSymbol:     "global-symbol",
	KindDataDeclaration:  "data-declaration",
	KindLabelDeclaration: "label-declaration",
	KindFunctionEntry:    "function-entry",
}

func (k LineKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes the kind by name, so kind-keyed maps read well as JSON.
func (k LineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (k *LineKind) UnmarshalText(text []byte) error {
	kind, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown line kind %q", text)
	}
	*k = kind
	return nil
}

// ParseKind maps a kind name back to its LineKind. The empty string maps to
// KindInstruction.
func ParseKind(name string) (LineKind, bool) {
	if name == "" {
		return KindInstruction, true
	}
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return KindInstruction, false
}

// splitLines splits doc on "\n". A trailing newline does not produce an
// empty final line, so "" has no lines and "a\n" has one.
func splitLines(doc string) []string {
	if doc == "" {
		return nil
	}
	lines := strings.Split(doc, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
