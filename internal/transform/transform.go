// Package transform holds the transformer catalog and the pipeline that
// runs it. Transformers are a closed set with a fixed default order;
// directive names and CLI names resolve against that catalog once, at
// configuration time.
package transform

import (
	"strings"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/diag"
	"github.com/kkotenko/robotframework-tidy/internal/disablers"
)

// Transformer is one rewriting unit. Transform visits the tree in
// place, consulting ctx.Disablers before touching any node; statement-
// local trouble goes into ctx.Diags, never an error. Configure rejects
// unknown parameters so bad configuration aborts before any file work.
type Transformer interface {
	Name() string
	MinVersion() int
	Configure(param, value string) error
	Transform(file *ast.File, ctx *Context)
	Doc() string
}

// Layout carries the formatting knobs transformers share.
type Layout struct {
	SpaceCount         int
	Indent             int
	ContinuationIndent int
	Separator          string // "space" or "tab"
	LineLength         int
}

// DefaultLayout mirrors the CLI defaults.
func DefaultLayout() Layout {
	return Layout{
		SpaceCount:         4,
		Indent:             4,
		ContinuationIndent: 4,
		Separator:          "space",
		LineLength:         120,
	}
}

// SeparatorText returns the text inserted between rebuilt cells.
func (l Layout) SeparatorText() string {
	if l.Separator == "tab" {
		return "\t"
	}
	return strings.Repeat(" ", l.SpaceCount)
}

// IndentText returns the text of one indentation level.
func (l Layout) IndentText() string {
	if l.Separator == "tab" {
		return "\t"
	}
	return strings.Repeat(" ", l.Indent)
}

// ContinuationText returns the separator after a "..." marker.
func (l Layout) ContinuationText() string {
	if l.Separator == "tab" {
		return "\t"
	}
	return strings.Repeat(" ", l.ContinuationIndent)
}

// Context is the per-file state a transformer may consult. The disabler
// map is resolved before the pipeline starts and stays immutable.
type Context struct {
	Path      string
	Disablers *disablers.Map
	Diags     *diag.Bag
	Layout    Layout
}

// NewContext assembles a context for one file task.
func NewContext(path string, dm *disablers.Map, bag *diag.Bag, layout Layout) *Context {
	return &Context{Path: path, Disablers: dm, Diags: bag, Layout: layout}
}

// StatementDisabled reports whether name must keep its hands off st.
func (c *Context) StatementDisabled(name string, st *ast.Statement) bool {
	return c.Disablers.IsNodeDisabled(name, st.FirstLine(), st.LastLine())
}

// SectionDisabled reports whether name must skip the whole section,
// either by covering range or by a directive on its header.
func (c *Context) SectionDisabled(name string, sec *ast.Section) bool {
	if c.Disablers.IsNodeDisabled(name, sec.FirstLine(), sec.LastLine()) {
		return true
	}
	return sec.Header != nil && c.Disablers.IsHeaderDisabled(name, sec.Header.FirstLine())
}

// HeaderDisabled reports whether name must leave the section header
// line alone. Checked separately from SectionDisabled because a header
// rewrite only needs the header line covered, not the whole section.
func (c *Context) HeaderDisabled(name string, sec *ast.Section) bool {
	if sec.Header == nil {
		return true
	}
	if c.StatementDisabled(name, sec.Header) {
		return true
	}
	return c.Disablers.IsHeaderDisabled(name, sec.Header.FirstLine())
}
