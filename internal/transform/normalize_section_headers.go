package transform

import (
	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/token"
)

// NormalizeSectionHeaders rewrites recognized section headers to their
// canonical "*** Name ***" spelling.
type NormalizeSectionHeaders struct{}

// NewNormalizeSectionHeaders returns the transformer with defaults.
func NewNormalizeSectionHeaders() *NormalizeSectionHeaders {
	return &NormalizeSectionHeaders{}
}

func (t *NormalizeSectionHeaders) Name() string    { return "NormalizeSectionHeaders" }
func (t *NormalizeSectionHeaders) MinVersion() int { return 4 }

func (t *NormalizeSectionHeaders) Configure(param, value string) error {
	return errUnknownParam(param)
}

func (t *NormalizeSectionHeaders) Transform(f *ast.File, ctx *Context) {
	for _, sec := range f.Sections {
		if sec.Header == nil || sec.Kind == ast.InvalidSection {
			continue
		}
		if ctx.HeaderDisabled(t.Name(), sec) {
			continue
		}
		canonical := "*** " + sec.Kind.Name() + " ***"
		for i := range sec.Header.Tokens {
			tok := &sec.Header.Tokens[i]
			if tok.Kind == token.SectionHeader {
				tok.Text = canonical
				break
			}
		}
	}
}

func (t *NormalizeSectionHeaders) Doc() string { return docNormalizeSectionHeaders }

const docNormalizeSectionHeaders = `Normalize section headers.

Rewrites every recognized section header to the canonical
` + "`*** Section Name ***`" + ` form:

    *settings*
    *** KEYWORDS ***
    *** Test Case ***

becomes:

    *** Settings ***
    *** Keywords ***
    *** Test Cases ***

Headers with names that are not Robot Framework sections are left
untouched. Data following the header on the same line is preserved.
`
