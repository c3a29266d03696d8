package ast

import (
	"strings"

	"github.com/kkotenko/robotframework-tidy/internal/token"
)

// Text serializes the tree back to source text: a plain concatenation
// of every token. On an untouched tree this is the identity.
func Text(f *File) string {
	var b strings.Builder
	f.EachStatement(func(_ *Section, _ *Block, st *Statement) {
		for _, t := range st.Tokens {
			b.WriteString(t.Text)
		}
	})
	return b.String()
}

// ApplyLineSep rewrites every line-ending token to sep. The driver calls
// this on changed files when a fixed separator policy is configured;
// untouched files are never rewritten, so their endings stay as read.
func ApplyLineSep(f *File, sep string) {
	f.EachStatement(func(_ *Section, _ *Block, st *Statement) {
		for i, t := range st.Tokens {
			if t.Kind == token.EOL && t.Text != sep {
				st.Tokens[i].Text = sep
			}
		}
	})
	f.LineSep = sep
}
