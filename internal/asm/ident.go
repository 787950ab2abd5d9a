package asm

import "strings"

// CanonicalizeIdentifiers removes platform name decoration from every
// identifier on line. Everything that is not an identifier is copied
// through unchanged.
func CanonicalizeIdentifiers(line string) string {
	out, _ := canonicalizeLine(line)
	return out
}

// canonicalizeLine is CanonicalizeIdentifiers that also counts rewrites.
func canonicalizeLine(line string) (string, int) {
	var sb strings.Builder
	sb.Grow(len(line))
	rewritten := 0
	for i := 0; i < len(line); {
		j := i
		for j < len(line) && isWordByte(line[j]) {
			j++
		}
		if j == i {
			for j < len(line) && !isWordByte(line[j]) {
				j++
			}
			sb.WriteString(line[i:j])
			i = j
			continue
		}
		tok := line[i:j]
		canon := CanonicalIdentifier(tok)
		if canon != tok {
			rewritten++
		}
		sb.WriteString(canon)
		i = j
	}
	return sb.String(), rewritten
}

// CanonicalIdentifier rewrites a single token:
//
//	__Zfoo -> _Zfoo  (Mach-O decorated C++ mangled name)
//	_foo   -> foo    (Mach-O decorated C name)
//
// Anything else, including "_Zfoo", "__foo" and non-identifiers, is
// returned unchanged. So is "_Lfoo": with the underscore removed it would
// read as an undotted local label on the next pass, and normalizing the
// output again would rewrite or drop it.
func CanonicalIdentifier(tok string) string {
	if !isIdentifier(tok) {
		return tok
	}
	if strings.HasPrefix(tok, "__Z") {
		return tok[1:]
	}
	if len(tok) > 1 && tok[0] == '_' && isAlpha(tok[1]) && tok[1] != 'Z' {
		if looksLikeLocalLabel(tok[1:]) {
			return tok
		}
		return tok[1:]
	}
	return tok
}

// looksLikeLocalLabel reports whether name has the shape of an undotted
// local label declaration: "L" followed by a letter or digit.
func looksLikeLocalLabel(name string) bool {
	return len(name) > 1 && name[0] == 'L' && (isAlpha(name[1]) || isDigit(name[1]))
}

func isIdentifier(tok string) bool {
	if tok == "" {
		return false
	}
	if !isAlpha(tok[0]) && tok[0] != '_' {
		return false
	}
	for i := 1; i < len(tok); i++ {
		if !isWordByte(tok[i]) {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordByte(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_'
}
