package transform

import (
	"strings"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/diag"
	"github.com/kkotenko/robotframework-tidy/internal/token"
	"github.com/kkotenko/robotframework-tidy/internal/variable"
)

// Scoped setter keywords and the VAR scope they map to, by normalized
// keyword name.
var varScopes = map[string]string{
	"settestvariable":   "TEST",
	"settaskvariable":   "TASK",
	"setsuitevariable":  "SUITE",
	"setglobalvariable": "GLOBAL",
	"setlocalvariable":  "LOCAL",
}

// ReplaceWithVAR rewrites legacy value-construction keyword calls into
// VAR declarations. Calls whose argument roles cannot be inferred are
// left as written and reported, never half-rewritten.
type ReplaceWithVAR struct {
	explicitLocal bool
}

// NewReplaceWithVAR returns the transformer with defaults.
func NewReplaceWithVAR() *ReplaceWithVAR {
	return &ReplaceWithVAR{}
}

func (t *ReplaceWithVAR) Name() string    { return "ReplaceWithVAR" }
func (t *ReplaceWithVAR) MinVersion() int { return 7 }

func (t *ReplaceWithVAR) Configure(param, value string) error {
	switch param {
	case "explicit_local":
		b, err := parseBool(param, value)
		if err != nil {
			return err
		}
		t.explicitLocal = b
	default:
		return errUnknownParam(param)
	}
	return nil
}

func (t *ReplaceWithVAR) Transform(f *ast.File, ctx *Context) {
	f.EachStatement(func(_ *ast.Section, blk *ast.Block, st *ast.Statement) {
		if blk == nil || st.Kind != ast.KeywordCall {
			return
		}
		if ctx.StatementDisabled(t.Name(), st) {
			return
		}
		t.rewrite(st, ctx)
	})
}

func (t *ReplaceWithVAR) rewrite(st *ast.Statement, ctx *Context) {
	var assigns, args, comments []token.Token
	var keyword token.Token
	haveKeyword := false
	for _, tok := range st.Tokens {
		switch tok.Kind {
		case token.Assign:
			assigns = append(assigns, tok)
		case token.KeywordCall:
			keyword = tok
			haveKeyword = true
		case token.Argument:
			args = append(args, tok)
		case token.Comment:
			comments = append(comments, tok)
		}
	}
	if !haveKeyword {
		return
	}
	name := strings.TrimPrefix(token.NormalizedName(keyword.Text), "builtin.")

	var cells []token.Token
	var ok bool
	switch {
	case name == "setvariable":
		cells, ok = t.convertSetVariable(st, ctx, assigns, args)
	case varScopes[name] != "":
		cells, ok = t.convertScopedSetter(st, ctx, varScopes[name], assigns, args)
	case name == "createlist":
		cells, ok = t.convertCreateList(st, ctx, assigns, args)
	case name == "createdictionary":
		cells, ok = t.convertCreateDictionary(st, ctx, assigns, args)
	case name == "catenate":
		cells, ok = t.convertCatenate(st, ctx, assigns, args)
	default:
		return
	}
	if !ok {
		return
	}
	cells = append(cells, comments...)

	st.Kind = ast.VarDecl
	st.Tokens = lineOf(st.Indent(), ctx.Layout.SeparatorText(), lastEOL(st), st.FirstLine(), cells...)
}

func (t *ReplaceWithVAR) convertSetVariable(st *ast.Statement, ctx *Context, assigns, args []token.Token) ([]token.Token, bool) {
	ref, ok := singleTarget(assigns)
	if !ok {
		return t.ambiguous(st, ctx, "Set Variable needs exactly one assignment target")
	}
	switch ref.Sigil {
	case '$':
		if len(args) == 0 {
			return t.ambiguous(st, ctx, "Set Variable without values")
		}
		if len(args) > 1 {
			return t.ambiguous(st, ctx, "scalar assigned from a value list cannot become VAR")
		}
		return t.varCells(ref.Text(), []token.Token{args[0]}, '$', ""), true
	case '@':
		return t.varCells(ref.Text(), args, '@', ""), true
	}
	return t.ambiguous(st, ctx, "dictionary target needs Create Dictionary, not Set Variable")
}

func (t *ReplaceWithVAR) convertScopedSetter(st *ast.Statement, ctx *Context, scope string, assigns, args []token.Token) ([]token.Token, bool) {
	if len(assigns) > 0 {
		return t.ambiguous(st, ctx, "scoped setter with assignment targets cannot become VAR")
	}
	if len(args) == 0 {
		return t.ambiguous(st, ctx, "scoped setter without a variable name")
	}
	name, ok := canonicalVarName(args[0].Text)
	if !ok {
		return t.ambiguous(st, ctx, "variable name is not a plain reference")
	}
	values := args[1:]
	if len(values) == 0 {
		// "Set Suite Variable    ${X}" widens the existing value; VAR
		// always assigns a new one.
		return t.ambiguous(st, ctx, "scoped setter without values has no VAR equivalent")
	}
	if name[0] == '&' && optionLike(values[len(values)-1].Text, false) {
		return t.ambiguous(st, ctx, "last dictionary item would parse as a VAR option")
	}
	if scope == "LOCAL" {
		scope = ""
	}
	return t.varCells(name, values, name[0], scope), true
}

func (t *ReplaceWithVAR) convertCreateList(st *ast.Statement, ctx *Context, assigns, args []token.Token) ([]token.Token, bool) {
	ref, ok := singleTarget(assigns)
	if !ok || ref.Sigil == '&' {
		return t.ambiguous(st, ctx, "Create List needs a single scalar or list target")
	}
	return t.varCells(variable.WithSigil(ref.Text(), '@'), args, '@', ""), true
}

func (t *ReplaceWithVAR) convertCreateDictionary(st *ast.Statement, ctx *Context, assigns, args []token.Token) ([]token.Token, bool) {
	ref, ok := singleTarget(assigns)
	if !ok {
		return t.ambiguous(st, ctx, "Create Dictionary needs a single target")
	}
	var entries []token.Token
	for i := 0; i < len(args); {
		text := args[i].Text
		if unescapedEqIndex(text) >= 0 {
			entries = append(entries, args[i])
			i++
			continue
		}
		if i+1 >= len(args) {
			return t.ambiguous(st, ctx, "positional dictionary items do not pair up")
		}
		joined := args[i]
		joined.Text = text + "=" + args[i+1].Text
		entries = append(entries, joined)
		i += 2
	}
	if len(entries) > 0 && optionLike(entries[len(entries)-1].Text, false) {
		return t.ambiguous(st, ctx, "last dictionary entry would parse as a VAR option")
	}
	return t.varCells(variable.WithSigil(ref.Text(), '&'), entries, '&', ""), true
}

func (t *ReplaceWithVAR) convertCatenate(st *ast.Statement, ctx *Context, assigns, args []token.Token) ([]token.Token, bool) {
	ref, ok := singleTarget(assigns)
	if !ok {
		return t.ambiguous(st, ctx, "Catenate needs a single target")
	}
	sep := ""
	haveSep := false
	values := args
	if len(args) > 0 && strings.HasPrefix(args[0].Text, "SEPARATOR=") {
		sep = strings.TrimPrefix(args[0].Text, "SEPARATOR=")
		haveSep = true
		values = args[1:]
	}
	cells := t.varCells(variable.WithSigil(ref.Text(), '$'), values, '$', "")
	if haveSep {
		if sep == "" {
			// An explicitly empty separator is not the default space.
			sep = "${EMPTY}"
		}
		cells = insertBeforeScope(cells, argCell("separator="+sep))
	}
	return cells, true
}

// varCells assembles VAR, the target name, the value cells with option
// lookalikes escaped, and the scope option. Dictionary values are never
// escaped; their key=value shape must survive. The explicit_local
// parameter adds scope=LOCAL to declarations that would otherwise say
// nothing.
func (t *ReplaceWithVAR) varCells(name string, values []token.Token, sigil byte, scope string) []token.Token {
	cells := make([]token.Token, 0, len(values)+3)
	cells = append(cells, token.New(token.Var, "VAR", 0, 0))
	cells = append(cells, token.New(token.Variable, name, 0, 0))
	for _, v := range values {
		text := v.Text
		if sigil != '&' {
			text = escapeOptionLike(text, sigil == '$')
		}
		cells = append(cells, argCell(text))
	}
	if scope == "" && t.explicitLocal {
		scope = "LOCAL"
	}
	if scope != "" {
		cells = append(cells, argCell("scope="+scope))
	}
	return cells
}

func argCell(text string) token.Token {
	return token.New(token.Argument, text, 0, 0)
}

// insertBeforeScope places a cell after the values but ahead of any
// scope option, which VAR expects last.
func insertBeforeScope(cells []token.Token, cell token.Token) []token.Token {
	last := cells[len(cells)-1]
	if last.Kind == token.Argument && optionLike(last.Text, false) {
		cells[len(cells)-1] = cell
		return append(cells, last)
	}
	return append(cells, cell)
}

// singleTarget accepts exactly one assignment cell without item access.
func singleTarget(assigns []token.Token) (variable.Ref, bool) {
	if len(assigns) != 1 {
		return variable.Ref{}, false
	}
	return variable.ParseAssignTarget(assigns[0].Text)
}

// canonicalVarName turns the name forms the scoped setters accept,
// "${x}", "\${x}" and "$x", into the "${x}" spelling.
func canonicalVarName(text string) (string, bool) {
	if variable.IsRef(text) {
		return text, true
	}
	if len(text) > 1 && text[0] == '\\' && variable.IsRef(text[1:]) {
		return text[1:], true
	}
	if len(text) > 1 && variable.IsSigil(text[0]) && !strings.ContainsAny(text[1:], "{}[]") {
		return string(text[0]) + "{" + text[1:] + "}", true
	}
	return "", false
}

// optionLike reports whether a value would be taken for a trailing VAR
// option. Separator only counts for scalar declarations.
func optionLike(text string, scalar bool) bool {
	if len(text) >= 6 && strings.EqualFold(text[:6], "scope=") {
		return true
	}
	return scalar && len(text) >= 10 && strings.EqualFold(text[:10], "separator=")
}

// escapeOptionLike escapes the equal sign of values that would parse as
// VAR options. The backslash disappears again at runtime, so the value
// is unchanged.
func escapeOptionLike(text string, scalar bool) string {
	if !optionLike(text, scalar) {
		return text
	}
	i := strings.IndexByte(text, '=')
	return text[:i] + `\=` + text[i+1:]
}

// unescapedEqIndex finds the first equal sign outside variable
// references that is not backslash-escaped, -1 if none.
func unescapedEqIndex(s string) int {
	refs := variable.FindAll(s)
	next := 0
	for i := 0; i < len(s); i++ {
		if next < len(refs) && i == refs[next].Start {
			i = refs[next].End - 1
			next++
			continue
		}
		if s[i] == '=' && !variable.EscapedAt(s, i) {
			return i
		}
	}
	return -1
}

func (t *ReplaceWithVAR) ambiguous(st *ast.Statement, ctx *Context, msg string) ([]token.Token, bool) {
	ctx.Diags.Add(diag.Diagnostic{
		Severity:    diag.SevInfo,
		Code:        diag.CodeAmbiguousRewrite,
		Path:        ctx.Path,
		Line:        st.FirstLine(),
		Transformer: t.Name(),
		Message:     msg,
	})
	return nil, false
}

func (t *ReplaceWithVAR) Doc() string { return docReplaceWithVAR }

const docReplaceWithVAR = `Replace legacy variable keywords with VAR.

Rewrites Set Variable, Set Test/Task/Suite/Global/Local Variable,
Create List, Create Dictionary and Catenate calls into VAR declarations
(Robot Framework 7 syntax):

    *** Test Cases ***
    Test
        ${name} =    Set Variable    value
        ${greeting} =    Catenate    SEPARATOR=    Hello    世界
        @{items}    Create List    a    b
        ${dict}    Create Dictionary    key    value
        Set Suite Variable    ${TIMEOUT}    30s

becomes:

    *** Test Cases ***
    Test
        VAR    ${name}    value
        VAR    ${greeting}    Hello    世界    separator=${EMPTY}
        VAR    @{items}    a    b
        VAR    &{dict}    key=value
        VAR    ${TIMEOUT}    30s    scope=SUITE

An explicitly empty Catenate separator becomes separator=${EMPTY};
omitting the separator keeps VAR's default single space. Positional
Create Dictionary items pair up into key=value entries. Calls whose
argument roles cannot be inferred, such as a scalar assigned from a
value list or an unpaired dictionary key, are left alone.

Parameters:
- ` + "`explicit_local`" + `: write scope=LOCAL on declarations that would
  otherwise rely on the default scope (default false).
`
