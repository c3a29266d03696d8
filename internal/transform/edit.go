package transform

import (
	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/token"
)

// lineOf assembles the tokens of one physical line: the indent
// separator when non-empty, cells joined by sep, and the eol text when
// non-empty. Cell positions are recomputed; the line number is stamped
// on every token.
func lineOf(indent, sep, eol string, line int, cells ...token.Token) []token.Token {
	toks := make([]token.Token, 0, 2*len(cells)+2)
	col := 0
	if indent != "" {
		toks = append(toks, token.New(token.Separator, indent, line, col))
		col += len(indent)
	}
	for i, c := range cells {
		if i > 0 {
			toks = append(toks, token.New(token.Separator, sep, line, col))
			col += len(sep)
		}
		c.Line = line
		c.Col = col
		toks = append(toks, c)
		col += len(c.Text)
	}
	if eol != "" {
		toks = append(toks, token.New(token.EOL, eol, line, col))
	}
	return toks
}

// lastEOL returns the text of the statement's final line terminator,
// empty when the statement ends the file without one.
func lastEOL(st *ast.Statement) string {
	for i := len(st.Tokens) - 1; i >= 0; i-- {
		if st.Tokens[i].Kind == token.EOL {
			return st.Tokens[i].Text
		}
	}
	return ""
}

