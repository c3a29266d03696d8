// Package parser turns suite file bytes into the ast tree. Robot
// Framework has no parse errors, only data, so parsing is total over
// any valid UTF-8 input; the sole failure mode reported here is content
// that is not UTF-8 at all.
package parser

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/source"
	"github.com/kkotenko/robotframework-tidy/internal/token"
)

// Parse builds the tree for one loaded file.
func Parse(src *source.File) (*ast.File, error) {
	if !utf8.Valid(src.Content) {
		return nil, errors.New("source is not valid UTF-8")
	}
	file := &ast.File{
		Path:    src.Path,
		LineSep: source.DetectSep(src.Content, source.SepUnix),
	}
	b := &builder{file: file}
	for _, st := range groupStatements(src.Content) {
		b.add(st)
	}
	return file, nil
}

// ParseBytes is a convenience wrapper over an in-memory file.
func ParseBytes(name string, content []byte) (*ast.File, error) {
	return Parse(source.New(name, content))
}

// groupStatements scans physical lines and joins "..." continuations
// onto the statement they extend.
func groupStatements(content []byte) []*ast.Statement {
	var stmts []*ast.Statement
	lineNo := 0
	for start := 0; start < len(content); {
		end := start
		for end < len(content) && content[end] != '\n' {
			end++
		}
		if end < len(content) {
			end++ // keep the newline
		}
		lineNo++
		toks := scanLine(string(content[start:end]), lineNo)
		start = end

		if i, ok := firstContent(toks); ok && toks[i].Kind == token.Data && toks[i].Text == "..." {
			if prev := lastWithContent(stmts); prev != nil {
				toks[i].Kind = token.Continuation
				prev.Tokens = append(prev.Tokens, toks...)
				continue
			}
		}
		stmts = append(stmts, &ast.Statement{Tokens: toks})
	}
	return stmts
}

func firstContent(toks []token.Token) (int, bool) {
	for i, t := range toks {
		if t.IsContent() {
			return i, true
		}
	}
	return 0, false
}

// lastWithContent returns the statement a continuation can attach to:
// the immediately preceding one, provided it carries content.
func lastWithContent(stmts []*ast.Statement) *ast.Statement {
	if len(stmts) == 0 {
		return nil
	}
	last := stmts[len(stmts)-1]
	if len(last.Cells()) == 0 {
		return nil
	}
	return last
}

type builder struct {
	file    *ast.File
	section *ast.Section
	block   *ast.Block
}

func (b *builder) add(st *ast.Statement) {
	if i, ok := firstContent(st.Tokens); ok &&
		st.Tokens[i].Col == 0 && strings.HasPrefix(st.Tokens[i].Text, "*") {
		b.startSection(st, i)
		return
	}
	b.ensureSection()
	classify(st, b.section.Kind)

	if b.section.Kind.HasBlocks() && st.Kind == ast.BlockName {
		b.block = &ast.Block{Header: st}
		b.section.Blocks = append(b.section.Blocks, b.block)
		return
	}
	if b.block != nil {
		b.block.Body = append(b.block.Body, st)
		return
	}
	b.section.Body = append(b.section.Body, st)
}

// ensureSection lazily opens the implicit leading comment section for
// content appearing before any header.
func (b *builder) ensureSection() {
	if b.section == nil {
		b.section = &ast.Section{Kind: ast.CommentsSection}
		b.file.Sections = append(b.file.Sections, b.section)
	}
}

func (b *builder) startSection(st *ast.Statement, header int) {
	st.Kind = ast.SectionHeader
	st.Tokens[header].Kind = token.SectionHeader
	for j := header + 1; j < len(st.Tokens); j++ {
		if st.Tokens[j].Kind == token.Data {
			st.Tokens[j].Kind = token.Argument
		}
	}
	b.section = &ast.Section{
		Kind:   sectionKind(st.Tokens[header].Text),
		Header: st,
	}
	b.block = nil
	b.file.Sections = append(b.file.Sections, b.section)
}

func sectionKind(header string) ast.SectionKind {
	name := token.NormalizedName(strings.Trim(header, "* \t"))
	switch name {
	case "settings", "setting":
		return ast.SettingsSection
	case "variables", "variable":
		return ast.VariablesSection
	case "testcases", "testcase":
		return ast.TestCasesSection
	case "tasks", "task":
		return ast.TasksSection
	case "keywords", "keyword":
		return ast.KeywordsSection
	case "comments", "comment":
		return ast.CommentsSection
	default:
		return ast.InvalidSection
	}
}
