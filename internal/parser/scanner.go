package parser

import (
	"strings"

	"github.com/kkotenko/robotframework-tidy/internal/token"
)

// scanLine splits one physical line (line ending included, when present)
// into raw tokens. Cells come out as Data; classification by context
// happens later. Byte identity holds: concatenating the token texts
// reproduces the line exactly.
//
// Lexing rules: a run of blanks is a separator when it is two or more
// spaces or contains a tab; a single space stays inside the cell. A cell
// starting with "#" turns the whole remainder of the line into one
// comment token. Trailing blanks merge into the line-ending token, the
// way Robot Framework's own tokenizer does it.
func scanLine(text string, lineNo int) []token.Token {
	body, eol := splitEOL(text)
	var tokens []token.Token

	i := 0
	// leading blanks of any length are the indent separator
	if j := skipBlanks(body, 0); j > 0 {
		tokens = append(tokens, token.New(token.Separator, body[:j], lineNo, 0))
		i = j
	}

	for i < len(body) {
		if body[i] == '#' {
			tokens = append(tokens, token.New(token.Comment, body[i:], lineNo, i))
			i = len(body)
			break
		}
		start := i
		i = scanCell(body, i)
		tokens = append(tokens, token.New(token.Data, body[start:i], lineNo, start))
		if i < len(body) {
			sep := skipBlanks(body, i)
			tokens = append(tokens, token.New(token.Separator, body[i:sep], lineNo, i))
			i = sep
		}
	}

	if eol != "" {
		tokens = append(tokens, token.New(token.EOL, eol, lineNo, len(body)))
	}
	return tokens
}

// splitEOL cuts the line ending off, folding trailing blanks into it.
func splitEOL(text string) (body, eol string) {
	rest := strings.TrimSuffix(text, "\n")
	if rest != text {
		rest = strings.TrimSuffix(rest, "\r")
	}
	body = strings.TrimRight(rest, " \t")
	return body, text[len(body):]
}

// scanCell advances past one cell: it stops at a blank run that counts
// as a separator and never splits on a lone space.
func scanCell(body string, i int) int {
	for i < len(body) {
		if body[i] == '\t' {
			return i
		}
		if body[i] == ' ' {
			j := skipBlanks(body, i)
			if j-i >= 2 || strings.ContainsRune(body[i:j], '\t') {
				return i
			}
			i = j
			continue
		}
		i++
	}
	return i
}

func skipBlanks(body string, i int) int {
	for i < len(body) && (body[i] == ' ' || body[i] == '\t') {
		i++
	}
	return i
}
