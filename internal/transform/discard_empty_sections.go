package transform

import (
	"github.com/kkotenko/robotframework-tidy/internal/ast"
)

// DiscardEmptySections removes sections that hold nothing but blank
// lines, and optionally sections that hold only comments.
type DiscardEmptySections struct {
	allowOnlyComments bool
}

// NewDiscardEmptySections returns the transformer with defaults.
func NewDiscardEmptySections() *DiscardEmptySections {
	return &DiscardEmptySections{allowOnlyComments: true}
}

func (t *DiscardEmptySections) Name() string    { return "DiscardEmptySections" }
func (t *DiscardEmptySections) MinVersion() int { return 4 }

func (t *DiscardEmptySections) Configure(param, value string) error {
	switch param {
	case "allow_only_comments":
		b, err := parseBool(param, value)
		if err != nil {
			return err
		}
		t.allowOnlyComments = b
	default:
		return errUnknownParam(param)
	}
	return nil
}

func (t *DiscardEmptySections) Transform(f *ast.File, ctx *Context) {
	kept := f.Sections[:0]
	for _, sec := range f.Sections {
		if !t.empty(sec) || ctx.SectionDisabled(t.Name(), sec) {
			kept = append(kept, sec)
		}
	}
	f.Sections = kept
}

// empty reports whether the section has no content worth keeping.
// Comments count as content when allow_only_comments is set; in the
// Comments section they always do, that section exists for them.
func (t *DiscardEmptySections) empty(sec *ast.Section) bool {
	if len(sec.Blocks) > 0 {
		return false
	}
	commentsCount := t.allowOnlyComments || sec.Kind == ast.CommentsSection
	if commentsCount && sec.Header != nil && len(sec.Header.Comments()) > 0 {
		return false
	}
	for _, st := range sec.Body {
		switch st.Kind {
		case ast.Empty:
		case ast.CommentLine:
			if commentsCount {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (t *DiscardEmptySections) Doc() string { return docDiscardEmptySections }

const docDiscardEmptySections = `Discard empty sections.

Removes sections with no content:

    *** Settings ***
    Library    Collections

    *** Variables ***

    *** Test Cases ***
    Test
        Log    message

becomes:

    *** Settings ***
    Library    Collections

    *** Test Cases ***
    Test
        Log    message

Parameters:
- ` + "`allow_only_comments`" + `: when true (default), a section holding
  only comments counts as non-empty and is kept. When false, such
  sections are removed too. The ` + "`*** Comments ***`" + ` section keeps its
  comments either way.
`
