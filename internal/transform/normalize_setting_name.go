package transform

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/token"
)

// Setting names Robot Framework accepts, keyed by their normalized
// form, valued by the lower-case spelling the title caser works from.
var (
	sectionSettings = settingTable(
		"documentation", "metadata", "name",
		"library", "resource", "variables",
		"suite setup", "suite teardown",
		"test setup", "test teardown", "test template", "test timeout",
		"test tags", "force tags", "default tags", "keyword tags",
		"task setup", "task teardown", "task template", "task timeout",
		"task tags",
	)
	bracketSettings = settingTable(
		"documentation", "tags", "setup", "teardown",
		"template", "timeout", "arguments", "return",
	)
)

func settingTable(names ...string) map[string]string {
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[token.NormalizedName(n)] = n
	}
	return m
}

// NormalizeSettingName rewrites known setting names to their canonical
// title-case spelling, in the Settings section and in bracket settings
// of tests, tasks, and keywords.
type NormalizeSettingName struct{}

// NewNormalizeSettingName returns the transformer with defaults.
func NewNormalizeSettingName() *NormalizeSettingName {
	return &NormalizeSettingName{}
}

func (t *NormalizeSettingName) Name() string    { return "NormalizeSettingName" }
func (t *NormalizeSettingName) MinVersion() int { return 4 }

func (t *NormalizeSettingName) Configure(param, value string) error {
	return errUnknownParam(param)
}

func (t *NormalizeSettingName) Transform(f *ast.File, ctx *Context) {
	caser := cases.Title(language.English)
	f.EachStatement(func(sec *ast.Section, _ *ast.Block, st *ast.Statement) {
		if st.Kind != ast.Setting {
			return
		}
		if ctx.StatementDisabled(t.Name(), st) {
			return
		}
		for i := range st.Tokens {
			tok := &st.Tokens[i]
			if tok.Kind == token.SettingName {
				tok.Text = normalizeSettingName(tok.Text, sec.Kind, caser)
				break
			}
		}
	})
}

// normalizeSettingName canonicalizes one setting-name cell. Names not
// in the tables come back unchanged.
func normalizeSettingName(text string, sec ast.SectionKind, caser cases.Caser) string {
	if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
		inner := strings.TrimSpace(text[1 : len(text)-1])
		spaced, ok := bracketSettings[token.NormalizedName(inner)]
		if !ok {
			return text
		}
		return "[" + caser.String(spaced) + "]"
	}
	if sec != ast.SettingsSection {
		return text
	}
	spaced, ok := sectionSettings[token.NormalizedName(text)]
	if !ok {
		return text
	}
	return caser.String(spaced)
}

func (t *NormalizeSettingName) Doc() string { return docNormalizeSettingName }

const docNormalizeSettingName = `Normalize setting names.

Rewrites Robot Framework setting names to their canonical title-case
spelling:

    *** Settings ***
    library    Collections
    test_setup    Open Browser

    *** Test Cases ***
    Test
        [ TAGS ]    smoke

becomes:

    *** Settings ***
    Library    Collections
    Test Setup    Open Browser

    *** Test Cases ***
    Test
        [Tags]    smoke

Names that are not valid settings are left untouched.
`
