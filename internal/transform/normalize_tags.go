package transform

import (
	"strings"
	"unicode"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/token"
	"github.com/kkotenko/robotframework-tidy/internal/variable"
)

// Settings whose arguments are tag lists, by normalized name.
var tagSettings = map[string]bool{
	"[tags]":      true,
	"forcetags":   true,
	"defaulttags": true,
	"testtags":    true,
	"keywordtags": true,
	"tasktags":    true,
}

// NormalizeTags applies a case policy to tags and removes duplicates.
// Variable references inside a tag are never touched; renaming them is
// RenameVariables' business.
type NormalizeTags struct {
	tagCase string
	dedupe  bool
}

// NewNormalizeTags returns the transformer with defaults.
func NewNormalizeTags() *NormalizeTags {
	return &NormalizeTags{tagCase: "lower", dedupe: true}
}

func (t *NormalizeTags) Name() string    { return "NormalizeTags" }
func (t *NormalizeTags) MinVersion() int { return 4 }

func (t *NormalizeTags) Configure(param, value string) error {
	switch param {
	case "case":
		v, err := parseEnum(param, value, "lower", "upper", "title", "preserve")
		if err != nil {
			return err
		}
		t.tagCase = v
	case "dedupe":
		b, err := parseBool(param, value)
		if err != nil {
			return err
		}
		t.dedupe = b
	default:
		return errUnknownParam(param)
	}
	return nil
}

func (t *NormalizeTags) Transform(f *ast.File, ctx *Context) {
	f.EachStatement(func(_ *ast.Section, _ *ast.Block, st *ast.Statement) {
		if st.Kind != ast.Setting || !isTagStatement(st) {
			return
		}
		if ctx.StatementDisabled(t.Name(), st) {
			return
		}
		t.rewrite(st)
	})
}

func isTagStatement(st *ast.Statement) bool {
	for _, tok := range st.Tokens {
		if tok.Kind == token.SettingName {
			return tagSettings[token.NormalizedName(tok.Text)]
		}
	}
	return false
}

func (t *NormalizeTags) rewrite(st *ast.Statement) {
	seen := make(map[string]bool)
	drop := make(map[int]bool)
	past := false
	for i := range st.Tokens {
		tok := &st.Tokens[i]
		if tok.Kind == token.SettingName {
			past = true
			continue
		}
		if !past || tok.Kind != token.Argument {
			continue
		}
		tok.Text = caseTag(tok.Text, t.tagCase)
		if !t.dedupe {
			continue
		}
		key := token.NormalizedName(tok.Text)
		if seen[key] {
			drop[i] = true
			if i > 0 && st.Tokens[i-1].Kind == token.Separator {
				drop[i-1] = true
			}
			continue
		}
		seen[key] = true
	}
	if len(drop) > 0 {
		st.Tokens = dropTokens(st.Tokens, drop)
		st.Tokens = dropBareLines(st.Tokens)
	}
}

func dropTokens(toks []token.Token, drop map[int]bool) []token.Token {
	out := toks[:0]
	for i, tok := range toks {
		if !drop[i] {
			out = append(out, tok)
		}
	}
	return out
}

// dropBareLines removes physical lines that dedup left without any
// content, such as a continuation line whose every tag was a duplicate.
// The first line always keeps the setting name and stays.
func dropBareLines(toks []token.Token) []token.Token {
	var out []token.Token
	start := 0
	first := true
	for i, tok := range toks {
		if tok.Kind != token.EOL && i != len(toks)-1 {
			continue
		}
		line := toks[start : i+1]
		if first || lineHasContent(line) {
			out = append(out, line...)
		}
		first = false
		start = i + 1
	}
	return out
}

func lineHasContent(line []token.Token) bool {
	for _, tok := range line {
		if tok.IsContent() && tok.Kind != token.Continuation {
			return true
		}
	}
	return false
}

// caseTag applies the case policy to the parts of a tag outside
// variable references.
func caseTag(text, mode string) string {
	if mode == "preserve" {
		return text
	}
	refs := variable.FindAll(text)
	var b strings.Builder
	last := 0
	for _, r := range refs {
		b.WriteString(caseSegment(text[last:r.Start], mode))
		b.WriteString(text[r.Start:r.End])
		last = r.End
	}
	b.WriteString(caseSegment(text[last:], mode))
	return b.String()
}

func caseSegment(s, mode string) string {
	switch mode {
	case "upper":
		return strings.ToUpper(s)
	case "title":
		return titleWords(s)
	default:
		return strings.ToLower(s)
	}
}

// titleWords uppercases the first letter after every non-letter and
// lowercases the rest, so "smoke test" becomes "Smoke Test" and stays
// that way on a second pass.
func titleWords(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	boundary := true
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			boundary = true
			b.WriteRune(r)
		case boundary:
			boundary = false
			b.WriteRune(unicode.ToUpper(r))
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func (t *NormalizeTags) Doc() string { return docNormalizeTags }

const docNormalizeTags = `Normalize tag names.

Applies a case policy to every tag in ` + "`[Tags]`" + `, ` + "`Force Tags`" + `,
` + "`Default Tags`" + `, ` + "`Test Tags`" + `, ` + "`Keyword Tags`" + ` and ` + "`Task Tags`" + `,
and removes duplicate tags:

    *** Test Cases ***
    Test
        [Tags]    SMOKE    Smoke    UI

becomes:

    *** Test Cases ***
    Test
        [Tags]    smoke    ui

Parameters:
- ` + "`case`" + `: lower (default), upper, title or preserve.
- ` + "`dedupe`" + `: remove duplicate tags, comparing case-insensitively
  (default true).

Variable references inside tags keep their spelling; use
RenameVariables to rename them.
`
