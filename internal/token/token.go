package token

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Token represents a single source token with its position.
// Line is 1-based, Col is the 0-based byte offset within the line.
// Tokens are values; transformers build replacements instead of editing
// Text in place.
type Token struct {
	Kind Kind
	Text string
	Line int
	Col  int
}

// New builds a token at the given position.
func New(kind Kind, text string, line, col int) Token {
	return Token{Kind: kind, Text: text, Line: line, Col: col}
}

// EndCol returns the 0-based byte column just past the token text.
func (t Token) EndCol() int { return t.Col + len(t.Text) }

// Width returns the display width of the token text in terminal cells.
// East-Asian wide runes count as two, which is what line-length limits
// care about.
func (t Token) Width() int { return runewidth.StringWidth(t.Text) }

// IsContent reports whether the token carries cell content rather than
// layout (separators, line endings, continuation markers).
func (t Token) IsContent() bool {
	switch t.Kind {
	case Separator, EOL, Continuation, Invalid:
		return false
	default:
		return true
	}
}

// IsComment reports whether the token is a comment cell.
func (t Token) IsComment() bool { return t.Kind == Comment }

// SameText reports whether two tokens carry identical text.
func (t Token) SameText(other Token) bool { return t.Text == other.Text }

// NormalizedName returns the token text lowered with spaces and
// underscores removed, the form Robot Framework uses when matching
// keyword and setting names.
func NormalizedName(text string) string {
	text = strings.ToLower(text)
	text = strings.ReplaceAll(text, " ", "")
	return strings.ReplaceAll(text, "_", "")
}
