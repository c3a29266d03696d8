package parser

import (
	"strings"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/token"
	"github.com/kkotenko/robotframework-tidy/internal/variable"
)

// controlMarkers are reserved cell texts that open, continue, or close
// control structures. They only count when written exactly like this.
var controlMarkers = map[string]bool{
	"FOR": true, "END": true, "IF": true, "ELSE": true, "ELSE IF": true,
	"WHILE": true, "TRY": true, "EXCEPT": true, "FINALLY": true,
	"RETURN": true, "BREAK": true, "CONTINUE": true, "GROUP": true,
}

// classify assigns the statement kind and the role of every content
// cell from the section context. Comment cells keep their kind.
func classify(st *ast.Statement, sec ast.SectionKind) {
	cells := contentIndices(st.Tokens)
	if len(cells) == 0 {
		st.Kind = ast.Empty
		return
	}
	first := &st.Tokens[cells[0]]
	if first.Kind == token.Comment {
		st.Kind = ast.CommentLine
		return
	}

	switch sec {
	case ast.SettingsSection:
		st.Kind = ast.Setting
		first.Kind = token.SettingName
		markArguments(st.Tokens, cells[1:])
	case ast.VariablesSection:
		st.Kind = ast.VariableDef
		first.Kind = token.Variable
		markArguments(st.Tokens, cells[1:])
	case ast.TestCasesSection, ast.TasksSection, ast.KeywordsSection:
		classifyInBlockSection(st, sec, cells)
	default:
		st.Kind = ast.Data
	}
}

func classifyInBlockSection(st *ast.Statement, sec ast.SectionKind, cells []int) {
	first := &st.Tokens[cells[0]]
	if first.Col == 0 {
		st.Kind = ast.BlockName
		if sec == ast.KeywordsSection {
			first.Kind = token.KeywordName
		} else {
			first.Kind = token.TestName
		}
		markArguments(st.Tokens, cells[1:])
		return
	}

	switch {
	case strings.HasPrefix(first.Text, "[") && strings.HasSuffix(first.Text, "]"):
		st.Kind = ast.Setting
		first.Kind = token.SettingName
		markArguments(st.Tokens, cells[1:])
	case first.Text == "VAR":
		st.Kind = ast.VarDecl
		first.Kind = token.Var
		rest := cells[1:]
		for idx, ci := range rest {
			if st.Tokens[ci].Kind == token.Data {
				st.Tokens[ci].Kind = token.Variable
				markArguments(st.Tokens, rest[idx+1:])
				break
			}
		}
	case controlMarkers[first.Text]:
		st.Kind = ast.Data
		markArguments(st.Tokens, cells[1:])
	default:
		st.Kind = ast.KeywordCall
		classifyCall(st, cells)
	}
}

// classifyCall marks leading whole-cell variable references as assign
// targets, the first other cell as the keyword, and the remainder as
// arguments. When every cell is an assign target the statement has no
// keyword name; transformers that need one must check for it.
func classifyCall(st *ast.Statement, cells []int) {
	haveKeyword := false
	for _, ci := range cells {
		tok := &st.Tokens[ci]
		if tok.Kind != token.Data {
			continue
		}
		if haveKeyword {
			tok.Kind = token.Argument
			continue
		}
		if _, ok := variable.ParseAssignTarget(tok.Text); ok {
			tok.Kind = token.Assign
			continue
		}
		tok.Kind = token.KeywordCall
		haveKeyword = true
	}
}

func contentIndices(toks []token.Token) []int {
	var out []int
	for i, t := range toks {
		if t.IsContent() {
			out = append(out, i)
		}
	}
	return out
}

func markArguments(toks []token.Token, cells []int) {
	for _, ci := range cells {
		if toks[ci].Kind == token.Data {
			toks[ci].Kind = token.Argument
		}
	}
}
