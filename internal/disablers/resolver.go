package disablers

import (
	"regexp"
	"strings"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
)

// directivePattern matches from the start of a comment cell. The
// trailing group collects transformer names; an unrecognized comment is
// simply not a directive.
var directivePattern = regexp.MustCompile(`^\s*#\s?robotidy:\s?(on|off) ?=?([\w,\s]*)`)

type directive struct {
	off   bool
	names []string
}

// parseDirective interprets one comment cell. Names require the "="
// form; "# robotidy: off some trailing words" disables everything, and
// "# robotidy: off = ," names nobody and does nothing.
func parseDirective(text string) (directive, bool) {
	m := directivePattern.FindStringSubmatch(text)
	if m == nil {
		return directive{}, false
	}
	d := directive{off: m[1] == "off"}
	if m[2] == "" || !strings.Contains(m[0], "=") {
		d.names = []string{All}
		return d, true
	}
	for _, name := range strings.Split(m[2], ",") {
		if name = strings.TrimSpace(name); name != "" {
			d.names = append(d.names, name)
		}
	}
	return d, true
}

// Resolver builds the disabler Map for files. StartLine and endLine,
// when non-zero, clamp every transformer to that window.
type Resolver struct {
	startLine int
	endLine   int
}

func NewResolver(startLine, endLine int) *Resolver {
	return &Resolver{startLine: startLine, endLine: endLine}
}

// scope tracks open "off" directives: name → start line, 0 when closed.
type scope map[string]int

// Resolve scans every comment in the tree and produces the immutable
// index. It is total: malformed directive text is ignored, never an
// error.
func (r *Resolver) Resolve(f *ast.File) *Map {
	fileEnd := 0
	if n := len(f.Sections); n > 0 {
		fileEnd = f.Sections[n-1].LastLine()
	}
	m := newMap(r.startLine, r.endLine, fileEnd)
	for i, sec := range f.Sections {
		fileLevel := i == 0 && sec.Kind == ast.CommentsSection
		visitSection(m, sec, fileLevel)
	}
	m.sortRanges()
	return m
}

func visitSection(m *Map, sec *ast.Section, fileLevel bool) {
	if sec.Header != nil {
		visitHeader(m, sec.Header)
	}
	frames := []scope{make(scope)}
	for _, st := range sec.Body {
		visitStatement(m, frames, st)
	}
	for _, blk := range sec.Blocks {
		frames = append(frames, make(scope))
		if blk.Header != nil {
			visitStatement(m, frames, blk.Header)
		}
		for _, st := range blk.Body {
			visitStatement(m, frames, st)
		}
		closeScope(m, frames[1], blk.LastLine(), false)
		frames = frames[:1]
	}
	closeScope(m, frames[0], sec.LastLine(), fileLevel)
}

// visitHeader records a disabled header for an off directive riding on
// a section header line. Only the first such comment counts.
func visitHeader(m *Map, header *ast.Statement) {
	for _, c := range header.Comments() {
		d, ok := parseDirective(c.Text)
		if !ok || !d.off {
			continue
		}
		for _, name := range d.names {
			m.addHeader(name, header.FirstLine())
		}
		break
	}
}

func visitStatement(m *Map, frames []scope, st *ast.Statement) {
	if st.Kind == ast.CommentLine {
		comments := st.Comments()
		if len(comments) == 0 {
			return
		}
		d, ok := parseDirective(comments[0].Text)
		if !ok {
			return
		}
		// a comment at line start targets the section scope, an
		// indented one the innermost block scope
		frame := frames[len(frames)-1]
		if comments[0].Col == 0 {
			frame = frames[0]
		}
		line := st.FirstLine()
		for _, name := range d.names {
			switch {
			case d.off:
				if frame[name] == 0 { // first off wins
					frame[name] = line
				}
			case frame[name] != 0:
				m.addRange(name, frame[name], line)
				frame[name] = 0
			}
			// an "on" without a matching "off" is ignored
		}
		return
	}

	// inline directive on a statement: off disables exactly its lines
	for _, c := range st.Comments() {
		d, ok := parseDirective(c.Text)
		if !ok || !d.off {
			continue
		}
		for _, name := range d.names {
			m.addRange(name, st.FirstLine(), st.LastLine())
		}
	}
}

// closeScope flushes still-open directives when a block or section
// ends. In the file's leading comment section an unclosed off becomes a
// whole-file disabler.
func closeScope(m *Map, frame scope, endLine int, fileLevel bool) {
	for name, start := range frame {
		if start == 0 {
			continue
		}
		m.addRange(name, start, endLine)
		if fileLevel {
			m.setWhole(name)
		}
	}
}
