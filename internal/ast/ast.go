// Package ast models a Robot Framework suite file as the formatter works
// on it: File → Section → Block → Statement → tokens. Layout (separators,
// line endings, continuation markers) lives in the token stream, so the
// tree renders back to the exact input until a transformer replaces
// something.
package ast

import (
	"github.com/kkotenko/robotframework-tidy/internal/token"
)

// StatementKind classifies one logical line.
type StatementKind uint8

const (
	// Empty is a statement with no content cells (blank line).
	Empty StatementKind = iota
	// SectionHeader is a "*** Name ***" line.
	SectionHeader
	// BlockName is a test, task, or user keyword definition line.
	BlockName
	// KeywordCall is a keyword invocation, with or without assignment.
	KeywordCall
	// Setting is a "[Tags]"-style or Settings-section entry.
	Setting
	// VarDecl is a VAR declaration statement.
	VarDecl
	// VariableDef is a Variables-section entry.
	VariableDef
	// CommentLine is a statement whose only content is comments.
	CommentLine
	// Data is anything else, control structures included.
	Data
)

// Statement is one logical line: all tokens of its physical lines,
// separators and line endings included, in source order.
type Statement struct {
	Kind   StatementKind
	Tokens []token.Token
}

// NewStatement builds a statement from tokens.
func NewStatement(kind StatementKind, tokens ...token.Token) *Statement {
	return &Statement{Kind: kind, Tokens: tokens}
}

// FirstLine returns the 1-based line of the first token, 0 when empty.
func (s *Statement) FirstLine() int {
	if len(s.Tokens) == 0 {
		return 0
	}
	return s.Tokens[0].Line
}

// LastLine returns the 1-based line of the last token, 0 when empty.
func (s *Statement) LastLine() int {
	if len(s.Tokens) == 0 {
		return 0
	}
	return s.Tokens[len(s.Tokens)-1].Line
}

// Cells returns the content tokens of the statement, layout skipped.
func (s *Statement) Cells() []token.Token {
	var cells []token.Token
	for _, t := range s.Tokens {
		if t.IsContent() {
			cells = append(cells, t)
		}
	}
	return cells
}

// Comments returns the comment tokens of the statement.
func (s *Statement) Comments() []token.Token {
	var out []token.Token
	for _, t := range s.Tokens {
		if t.Kind == token.Comment {
			out = append(out, t)
		}
	}
	return out
}

// Indent returns the leading separator text of the first physical line,
// empty for statements starting at column zero.
func (s *Statement) Indent() string {
	if len(s.Tokens) > 0 && s.Tokens[0].Kind == token.Separator && s.Tokens[0].Col == 0 {
		return s.Tokens[0].Text
	}
	return ""
}

// Text returns the exact source text of the statement.
func (s *Statement) Text() string {
	var n int
	for _, t := range s.Tokens {
		n += len(t.Text)
	}
	buf := make([]byte, 0, n)
	for _, t := range s.Tokens {
		buf = append(buf, t.Text...)
	}
	return string(buf)
}

// SectionKind classifies a section by its header.
type SectionKind uint8

const (
	// InvalidSection is an unrecognized "*** ... ***" header.
	InvalidSection SectionKind = iota
	// CommentsSection holds free-form comments; also the implicit
	// section formed by comments before the first header.
	CommentsSection
	// SettingsSection is "*** Settings ***".
	SettingsSection
	// VariablesSection is "*** Variables ***".
	VariablesSection
	// TestCasesSection is "*** Test Cases ***".
	TestCasesSection
	// TasksSection is "*** Tasks ***".
	TasksSection
	// KeywordsSection is "*** Keywords ***".
	KeywordsSection
)

var sectionNames = map[SectionKind]string{
	InvalidSection:   "Invalid",
	CommentsSection:  "Comments",
	SettingsSection:  "Settings",
	VariablesSection: "Variables",
	TestCasesSection: "Test Cases",
	TasksSection:     "Tasks",
	KeywordsSection:  "Keywords",
}

// Name returns the canonical English section name.
func (k SectionKind) Name() string { return sectionNames[k] }

// HasBlocks reports whether sections of this kind contain named blocks.
func (k SectionKind) HasBlocks() bool {
	switch k {
	case TestCasesSection, TasksSection, KeywordsSection:
		return true
	default:
		return false
	}
}

// Block is one test case, task, or user keyword: its name line plus the
// flat list of body statements. Control structures stay flat; their
// markers are ordinary statements in Body.
type Block struct {
	Header *Statement
	Body   []*Statement
}

// FirstLine returns the first line of the block.
func (b *Block) FirstLine() int {
	if b.Header != nil {
		return b.Header.FirstLine()
	}
	if len(b.Body) > 0 {
		return b.Body[0].FirstLine()
	}
	return 0
}

// LastLine returns the last line of the block.
func (b *Block) LastLine() int {
	if len(b.Body) > 0 {
		return b.Body[len(b.Body)-1].LastLine()
	}
	if b.Header != nil {
		return b.Header.LastLine()
	}
	return 0
}

// Section is one top-level grouping. Header is nil for the implicit
// leading comment section. Body holds section-level statements; Blocks
// holds the named blocks of Test Cases / Tasks / Keywords sections.
type Section struct {
	Kind   SectionKind
	Header *Statement
	Body   []*Statement
	Blocks []*Block
}

// FirstLine returns the first line of the section.
func (s *Section) FirstLine() int {
	if s.Header != nil {
		return s.Header.FirstLine()
	}
	if len(s.Body) > 0 {
		return s.Body[0].FirstLine()
	}
	if len(s.Blocks) > 0 {
		return s.Blocks[0].FirstLine()
	}
	return 0
}

// LastLine returns the last line of the section.
func (s *Section) LastLine() int {
	if len(s.Blocks) > 0 {
		return s.Blocks[len(s.Blocks)-1].LastLine()
	}
	if len(s.Body) > 0 {
		return s.Body[len(s.Body)-1].LastLine()
	}
	if s.Header != nil {
		return s.Header.LastLine()
	}
	return 0
}

// File is the tree for one suite file. LineSep is the separator used
// when transformers fabricate new lines.
type File struct {
	Path     string
	Sections []*Section
	LineSep  string
}

// EachStatement visits every statement in source order. Block is nil
// for section-level statements.
func (f *File) EachStatement(fn func(sec *Section, blk *Block, st *Statement)) {
	for _, sec := range f.Sections {
		if sec.Header != nil {
			fn(sec, nil, sec.Header)
		}
		for _, st := range sec.Body {
			fn(sec, nil, st)
		}
		for _, blk := range sec.Blocks {
			if blk.Header != nil {
				fn(sec, blk, blk.Header)
			}
			for _, st := range blk.Body {
				fn(sec, blk, st)
			}
		}
	}
}
