package transform

import (
	"github.com/mattn/go-runewidth"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/diag"
	"github.com/kkotenko/robotframework-tidy/internal/token"
)

// SplitTooLongLine rewrites statements with lines over the length limit
// into continuation form, breaking only at cell boundaries.
type SplitTooLongLine struct {
	splitOnEveryArg bool
}

// NewSplitTooLongLine returns the transformer with defaults.
func NewSplitTooLongLine() *SplitTooLongLine {
	return &SplitTooLongLine{}
}

func (t *SplitTooLongLine) Name() string    { return "SplitTooLongLine" }
func (t *SplitTooLongLine) MinVersion() int { return 4 }

func (t *SplitTooLongLine) Configure(param, value string) error {
	switch param {
	case "split_on_every_arg":
		b, err := parseBool(param, value)
		if err != nil {
			return err
		}
		t.splitOnEveryArg = b
	default:
		return errUnknownParam(param)
	}
	return nil
}

func (t *SplitTooLongLine) Transform(f *ast.File, ctx *Context) {
	f.EachStatement(func(_ *ast.Section, blk *ast.Block, st *ast.Statement) {
		if blk == nil {
			return
		}
		if st.Kind != ast.KeywordCall && st.Kind != ast.VarDecl {
			return
		}
		if !tooLong(st, ctx.Layout.LineLength) {
			return
		}
		if ctx.StatementDisabled(t.Name(), st) {
			return
		}
		t.split(st, f, ctx)
	})
}

// tooLong reports whether any physical line of the statement exceeds
// the limit, measured in display width without the line terminator.
func tooLong(st *ast.Statement, limit int) bool {
	w := 0
	for _, tok := range st.Tokens {
		if tok.Kind == token.EOL {
			if w > limit {
				return true
			}
			w = 0
			continue
		}
		w += tok.Width()
	}
	return w > limit
}

func (t *SplitTooLongLine) split(st *ast.Statement, f *ast.File, ctx *Context) {
	var head, args, comments []token.Token
	haveKeyword := false
	for _, tok := range st.Tokens {
		switch tok.Kind {
		case token.Assign, token.Var, token.Variable:
			head = append(head, tok)
		case token.KeywordCall:
			head = append(head, tok)
			haveKeyword = true
		case token.Argument:
			args = append(args, tok)
		case token.Comment:
			comments = append(comments, tok)
		}
	}
	if st.Kind == ast.KeywordCall && !haveKeyword {
		// A row of assignment targets with nothing to call. Splitting
		// it would fabricate a keyword, so report and move on.
		ctx.Diags.Add(diag.Diagnostic{
			Severity:    diag.SevWarning,
			Code:        diag.CodeMalformedStatement,
			Path:        ctx.Path,
			Line:        st.FirstLine(),
			Transformer: t.Name(),
			Message:     "keyword name missing, line left unsplit",
		})
		return
	}

	indent := st.Indent()
	sep := ctx.Layout.SeparatorText()
	line := st.FirstLine()
	finalEOL := lastEOL(st)

	lines := t.pack(head, args, indent, ctx.Layout)

	var toks []token.Token
	for _, c := range comments {
		toks = append(toks, lineOf(indent, sep, f.LineSep, line, c)...)
	}
	for i, cells := range lines {
		eol := f.LineSep
		if i == len(lines)-1 {
			eol = finalEOL
		}
		if i == 0 {
			toks = append(toks, lineOf(indent, sep, eol, line, cells...)...)
		} else {
			toks = append(toks, contLine(indent, sep, eol, line, ctx.Layout, cells)...)
		}
	}
	st.Tokens = toks
}

// pack distributes the argument cells over lines. The first line keeps
// the head (assignments plus keyword, or VAR plus name); in fill mode
// arguments follow while they fit under the limit, otherwise each goes
// to its own continuation line.
func (t *SplitTooLongLine) pack(head, args []token.Token, indent string, lay Layout) [][]token.Token {
	lines := [][]token.Token{head}
	indentW := textWidth(indent)
	sepW := textWidth(lay.SeparatorText())
	contBase := indentW + textWidth("...") + textWidth(lay.ContinuationText())

	w := indentW
	for i, h := range head {
		if i > 0 {
			w += sepW
		}
		w += h.Width()
	}
	for _, a := range args {
		last := len(lines) - 1
		if !t.splitOnEveryArg && w+sepW+a.Width() <= lay.LineLength {
			lines[last] = append(lines[last], a)
			w += sepW + a.Width()
			continue
		}
		lines = append(lines, []token.Token{a})
		w = contBase + a.Width()
	}
	return lines
}

// contLine renders one continuation line: indent, the "..." marker, the
// continuation separator, then the cells.
func contLine(indent, sep, eol string, line int, lay Layout, cells []token.Token) []token.Token {
	var toks []token.Token
	col := 0
	if indent != "" {
		toks = append(toks, token.New(token.Separator, indent, line, col))
		col += len(indent)
	}
	toks = append(toks, token.New(token.Continuation, "...", line, col))
	col += 3
	for i, c := range cells {
		gap := sep
		if i == 0 {
			gap = lay.ContinuationText()
		}
		toks = append(toks, token.New(token.Separator, gap, line, col))
		col += len(gap)
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

func textWidth(s string) int { return runewidth.StringWidth(s) }

func (t *SplitTooLongLine) Doc() string { return docSplitTooLongLine }

const docSplitTooLongLine = `Split lines over the length limit.

Statements whose rendered line exceeds the configured line length are
rewritten into continuation form. Arguments fill each line up to the
limit; assignments and the keyword stay on the first line; comments
move to their own lines above the statement:

    *** Test Cases ***
    Test
        ${result} =    Some Keyword    first argument    second argument    third argument    # trailing note

becomes (with a limit of 60):

    *** Test Cases ***
    Test
        # trailing note
        ${result} =    Some Keyword    first argument
        ...    second argument    third argument

Cell text is never broken: an argument longer than the whole limit gets
its own line and stays intact. A keyword call that has only assignment
targets and no keyword name is reported and left alone instead of
guessing.

Parameters:
- ` + "`split_on_every_arg`" + `: put every argument on its own continuation
  line instead of filling (default false).
`
