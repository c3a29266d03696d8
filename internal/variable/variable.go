// Package variable locates Robot Framework variable references inside
// token text. A reference is "${name}" with one of the four sigils; the
// name may nest further references ("${outer_${inner}}") and may be
// followed by item access ("${dict}[key]"), which is not part of the
// reference itself.
package variable

import (
	"strconv"
	"strings"
)

// Sigils accepted before "{".
const Sigils = "$@&%"

// Ref is one reference found in a piece of text. Offsets are byte
// positions into the searched string: Start points at the sigil, End
// just past the closing brace. Name is the text between the braces,
// nested references included.
type Ref struct {
	Start int
	End   int
	Sigil byte
	Name  string
}

// Text returns the full reference text, sigil and braces included.
func (r Ref) Text() string {
	return string(r.Sigil) + "{" + r.Name + "}"
}

// IsSigil reports whether b marks a variable reference when followed
// by "{".
func IsSigil(b byte) bool { return strings.IndexByte(Sigils, b) >= 0 }

// FindAll returns every top-level reference in text, left to right.
// A sigil preceded by an odd number of backslashes is escaped and
// skipped; an unclosed brace never matches. Nested references stay
// inside Name and are not reported separately.
func FindAll(text string) []Ref {
	var refs []Ref
	for i := 0; i+1 < len(text); {
		if !IsSigil(text[i]) || text[i+1] != '{' {
			i++
			continue
		}
		if EscapedAt(text, i) {
			i++
			continue
		}
		end, ok := matchBrace(text, i+1)
		if !ok {
			i++
			continue
		}
		refs = append(refs, Ref{
			Start: i,
			End:   end + 1,
			Sigil: text[i],
			Name:  text[i+2 : end],
		})
		i = end + 1
	}
	return refs
}

// EscapedAt reports whether the character at position i is preceded by
// an odd number of backslashes.
func EscapedAt(text string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && text[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

// matchBrace returns the index of the brace closing the one at open.
func matchBrace(text string, open int) (int, bool) {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// IsRef reports whether text is exactly one reference and nothing else.
func IsRef(text string) bool {
	refs := FindAll(text)
	return len(refs) == 1 && refs[0].Start == 0 && refs[0].End == len(text)
}

// TrimAssignSign splits an assignment cell into its reference part and
// the optional trailing equal sign: "${x} =" yields ("${x}", " =").
func TrimAssignSign(text string) (ref, sign string) {
	trimmed := strings.TrimRight(text, " ")
	if strings.HasSuffix(trimmed, "=") {
		cut := strings.TrimRight(trimmed[:len(trimmed)-1], " ")
		return cut, text[len(cut):]
	}
	return trimmed, text[len(trimmed):]
}

// ParseAssignTarget interprets an assignment or declaration cell:
// a single whole-cell reference, optionally followed by "=". Item
// access disqualifies the cell.
func ParseAssignTarget(text string) (Ref, bool) {
	ref, _ := TrimAssignSign(text)
	refs := FindAll(ref)
	if len(refs) != 1 || refs[0].Start != 0 || refs[0].End != len(ref) {
		return Ref{}, false
	}
	return refs[0], true
}

// WithSigil rewrites the sigil of a reference text: "${x}" with '@'
// becomes "@{x}". Text that is not a reference is returned unchanged.
func WithSigil(text string, sigil byte) string {
	if len(text) < 2 || !IsSigil(text[0]) || text[1] != '{' {
		return text
	}
	return string(sigil) + text[1:]
}

// IsNumber reports whether a variable name denotes a numeric literal
// (${42}, ${0xFF}, ${1e3}); such names are never renamed.
func IsNumber(name string) bool {
	s := strings.TrimSpace(name)
	if s == "" {
		return false
	}
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// IsInlineEval reports whether a name is an inline expression, the
// "${{ ... }}" form. Inline expressions are opaque to renaming.
func IsInlineEval(name string) bool {
	return strings.HasPrefix(name, "{") && strings.HasSuffix(name, "}")
}
