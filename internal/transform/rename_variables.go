package transform

import (
	"strings"
	"unicode"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/token"
	"github.com/kkotenko/robotframework-tidy/internal/variable"
)

// RenameVariables applies a naming convention to every variable
// reference: assignment targets, declaration names, arguments, setting
// values and tag lists alike.
type RenameVariables struct {
	convention string
	separator  string
	ignore     []string
}

// NewRenameVariables returns the transformer with defaults.
func NewRenameVariables() *RenameVariables {
	return &RenameVariables{convention: "upper", separator: "underscore"}
}

func (t *RenameVariables) Name() string    { return "RenameVariables" }
func (t *RenameVariables) MinVersion() int { return 4 }

func (t *RenameVariables) Configure(param, value string) error {
	switch param {
	case "convention":
		v, err := parseEnum(param, value, "upper", "lower", "title")
		if err != nil {
			return err
		}
		t.convention = v
	case "separator":
		v, err := parseEnum(param, value, "underscore", "space", "preserve")
		if err != nil {
			return err
		}
		t.separator = v
	case "ignore_vars":
		t.ignore = nil
		for _, name := range strings.Split(value, ",") {
			if name = strings.TrimSpace(name); name != "" {
				t.ignore = append(t.ignore, name)
			}
		}
	default:
		return errUnknownParam(param)
	}
	return nil
}

func (t *RenameVariables) Transform(f *ast.File, ctx *Context) {
	f.EachStatement(func(_ *ast.Section, _ *ast.Block, st *ast.Statement) {
		if st.Kind == ast.CommentLine {
			return
		}
		if ctx.StatementDisabled(t.Name(), st) {
			return
		}
		for i := range st.Tokens {
			tok := &st.Tokens[i]
			switch tok.Kind {
			case token.Assign, token.Variable, token.Argument:
				tok.Text = t.renameText(tok.Text)
			}
		}
	})
}

// renameText renames every reference found in text, leaving the text
// between references untouched.
func (t *RenameVariables) renameText(text string) string {
	refs := variable.FindAll(text)
	if len(refs) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, r := range refs {
		b.WriteString(text[last:r.Start])
		b.WriteByte(r.Sigil)
		b.WriteByte('{')
		b.WriteString(t.renameName(r.Name))
		b.WriteByte('}')
		last = r.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// renameName converts one brace-enclosed name. Only the base name is
// converted: extended variable syntax like "${var.attr}" or
// "${var + 1}" keeps everything past the first non-name character.
// Nested references are renamed first, innermost out.
func (t *RenameVariables) renameName(name string) string {
	if name == "" || variable.IsInlineEval(name) || variable.IsNumber(name) {
		return name
	}
	base, rest := splitExtended(name)
	if rest != "" {
		// "${var + 1}": the space before the operator belongs to the
		// expression, not to the name being converted.
		trimmed := strings.TrimRight(base, " ")
		rest = base[len(trimmed):] + rest
		base = trimmed
	}
	if t.ignored(base) {
		return name
	}
	base = t.renameText(base)
	base = t.convertOutsideRefs(base)
	return base + t.renameText(rest)
}

func (t *RenameVariables) ignored(base string) bool {
	for _, name := range t.ignore {
		if strings.EqualFold(base, name) {
			return true
		}
	}
	return false
}

// splitExtended cuts a name at the first byte outside nested references
// that cannot be part of a variable name. Letters, digits, underscores
// and spaces belong to the name.
func splitExtended(name string) (base, rest string) {
	refs := variable.FindAll(name)
	next := 0
	for i := 0; i < len(name); i++ {
		if next < len(refs) && i == refs[next].Start {
			i = refs[next].End - 1
			next++
			continue
		}
		if !isNameByte(name[i]) {
			return name[:i], name[i:]
		}
	}
	return name, ""
}

func isNameByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '_' || b == ' ':
		return true
	case b >= 0x80:
		// Multibyte runes stay part of the name.
		return true
	}
	return false
}

// convertOutsideRefs applies separator and case policy to the parts of
// the base name outside nested references.
func (t *RenameVariables) convertOutsideRefs(base string) string {
	refs := variable.FindAll(base)
	var b strings.Builder
	b.Grow(len(base))
	last := 0
	for _, r := range refs {
		b.WriteString(t.convert(base[last:r.Start]))
		b.WriteString(base[r.Start:r.End])
		last = r.End
	}
	b.WriteString(t.convert(base[last:]))
	return b.String()
}

func (t *RenameVariables) convert(s string) string {
	switch t.separator {
	case "underscore":
		s = strings.ReplaceAll(s, " ", "_")
	case "space":
		s = strings.ReplaceAll(s, "_", " ")
	}
	switch t.convention {
	case "upper":
		return strings.ToUpper(s)
	case "lower":
		return strings.ToLower(s)
	default:
		return titleName(s)
	}
}

// titleName uppercases the first letter of every separator-delimited
// word, so "my_var" becomes "My_Var" and "my var" becomes "My Var".
func titleName(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	boundary := true
	for _, r := range s {
		switch {
		case r == '_' || r == ' ':
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

func (t *RenameVariables) Doc() string { return docRenameVariables }

const docRenameVariables = `Rename variables to a consistent convention.

Applies the convention everywhere a variable reference can occur:
assignment targets, VAR and Variables-section declarations, keyword
arguments, setting values and tag lists.

    *** Test Cases ***
    Test
        [Tags]    tag with ${variable}
        ${result} =    Get Value    ${input value}

becomes:

    *** Test Cases ***
    Test
        [Tags]    tag with ${VARIABLE}
        ${RESULT} =    Get Value    ${INPUT_VALUE}

Nested references are renamed innermost out; the base name of extended
syntax like ` + "`${name.attribute}`" + ` is renamed while the extension is
kept. Numeric literals (` + "`${42}`" + `) and inline expressions (` + "`${{ ... }}`" + `)
never change.

Parameters:
- ` + "`convention`" + `: upper (default), lower or title.
- ` + "`separator`" + `: underscore (default) turns spaces into underscores,
  space turns underscores into spaces, preserve leaves them alone.
- ` + "`ignore_vars`" + `: comma-separated names exempt from renaming,
  matched case-insensitively against the base name.
`
