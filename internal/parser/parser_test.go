package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/token"
)

func mustParse(t *testing.T, text string) *ast.File {
	t.Helper()
	f, err := ParseBytes("test.robot", []byte(text))
	if err != nil {
		t.Fatalf("ParseBytes() error: %v", err)
	}
	return f
}

func contentKinds(st *ast.Statement) []token.Kind {
	var out []token.Kind
	for _, c := range st.Cells() {
		out = append(out, c.Kind)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"settings", "*** Settings ***\nLibrary    Collections\n"},
		{"crlf", "*** Settings ***\r\nLibrary    OperatingSystem\r\n"},
		{"no trailing newline", "*** Test Cases ***\nTest\n    Log    x"},
		{"trailing blanks", "*** Test Cases ***\nTest   \n    Log    x  \n"},
		{"tabs", "*** Test Cases ***\nTest\n\tLog\tmessage\n"},
		{"comments", "# leading\n*** Settings ***\nLibrary    X    # inline  comment\n"},
		{
			"continuation",
			"*** Test Cases ***\nTest\n    Log Many    a\n    ...    b\n    ...    c\n",
		},
		{"blank lines", "*** Keywords ***\n\nKeyword\n    No Operation\n\n\n"},
		{"lone stars", "****\ndata\n"},
		{"single space in cell", "*** Test Cases ***\nMy Test Name\n    Keyword With Spaces    arg one\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustParse(t, tt.text)
			if got := ast.Text(f); got != tt.text {
				t.Errorf("render is not byte-identical:\n got %q\nwant %q", got, tt.text)
			}
		})
	}
}

func TestSectionKinds(t *testing.T) {
	tests := []struct {
		header string
		want   ast.SectionKind
	}{
		{"*** Settings ***", ast.SettingsSection},
		{"*** settings ***", ast.SettingsSection},
		{"***Setting***", ast.SettingsSection},
		{"*** Variables ***", ast.VariablesSection},
		{"*** Test Cases ***", ast.TestCasesSection},
		{"*** test_cases ***", ast.TestCasesSection},
		{"*** Tasks ***", ast.TasksSection},
		{"*** Keywords ***", ast.KeywordsSection},
		{"* Keyword", ast.KeywordsSection},
		{"*** Comments ***", ast.CommentsSection},
		{"*** Bogus ***", ast.InvalidSection},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			f := mustParse(t, tt.header+"\n")
			if len(f.Sections) != 1 {
				t.Fatalf("got %d sections, want 1", len(f.Sections))
			}
			if got := f.Sections[0].Kind; got != tt.want {
				t.Errorf("section kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestImplicitLeadingCommentSection(t *testing.T) {
	f := mustParse(t, "# robotidy: off\n# more\n*** Settings ***\n")
	if len(f.Sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(f.Sections))
	}
	lead := f.Sections[0]
	if lead.Kind != ast.CommentsSection {
		t.Errorf("leading section kind = %v, want CommentsSection", lead.Kind)
	}
	if lead.Header != nil {
		t.Errorf("leading section has a header")
	}
	if len(lead.Body) != 2 {
		t.Errorf("leading section body = %d statements, want 2", len(lead.Body))
	}
}

func TestBlocks(t *testing.T) {
	text := "*** Test Cases ***\n" +
		"First Test\n" +
		"    [Tags]    smoke\n" +
		"    Log    hello\n" +
		"\n" +
		"Second Test\n" +
		"    No Operation\n"
	f := mustParse(t, text)
	sec := f.Sections[0]
	if len(sec.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(sec.Blocks))
	}
	first := sec.Blocks[0]
	if got := first.Header.Cells()[0].Text; got != "First Test" {
		t.Errorf("first block name = %q", got)
	}
	if len(first.Body) != 3 {
		t.Errorf("first block body = %d statements, want 3", len(first.Body))
	}
	if got := first.Header.Cells()[0].Kind; got != token.TestName {
		t.Errorf("block name token kind = %v, want TestName", got)
	}
	if first.FirstLine() != 2 || first.LastLine() != 5 {
		t.Errorf("block span = [%d, %d], want [2, 5]", first.FirstLine(), first.LastLine())
	}
}

func TestKeywordCallClassification(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []token.Kind
	}{
		{
			"plain call",
			"    Log    message",
			[]token.Kind{token.KeywordCall, token.Argument},
		},
		{
			"single assign",
			"    ${x}    Get Value",
			[]token.Kind{token.Assign, token.KeywordCall},
		},
		{
			"assign with equal sign",
			"    ${x} =    Get Value    arg",
			[]token.Kind{token.Assign, token.KeywordCall, token.Argument},
		},
		{
			"all cells are assigns",
			"    ${arg}    ${second_arg}",
			[]token.Kind{token.Assign, token.Assign},
		},
		{
			"item access is not an assign",
			"    ${d}[k]    arg",
			[]token.Kind{token.KeywordCall, token.Argument},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustParse(t, "*** Test Cases ***\nTest\n"+tt.line+"\n")
			st := f.Sections[0].Blocks[0].Body[0]
			if st.Kind != ast.KeywordCall {
				t.Fatalf("statement kind = %v, want KeywordCall", st.Kind)
			}
			if diff := cmp.Diff(tt.want, contentKinds(st)); diff != "" {
				t.Errorf("cell kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestVarDeclClassification(t *testing.T) {
	f := mustParse(t, "*** Test Cases ***\nTest\n    VAR    ${greeting}    hello\n")
	st := f.Sections[0].Blocks[0].Body[0]
	if st.Kind != ast.VarDecl {
		t.Fatalf("statement kind = %v, want VarDecl", st.Kind)
	}
	want := []token.Kind{token.Var, token.Variable, token.Argument}
	if diff := cmp.Diff(want, contentKinds(st)); diff != "" {
		t.Errorf("cell kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestControlStatementsStayData(t *testing.T) {
	text := "*** Keywords ***\nLoop\n    FOR    ${i}    IN    @{items}\n        Log    ${i}\n    END\n"
	f := mustParse(t, text)
	body := f.Sections[0].Blocks[0].Body
	if len(body) != 3 {
		t.Fatalf("body = %d statements, want 3", len(body))
	}
	if body[0].Kind != ast.Data {
		t.Errorf("FOR statement kind = %v, want Data", body[0].Kind)
	}
	if body[1].Kind != ast.KeywordCall {
		t.Errorf("nested call kind = %v, want KeywordCall", body[1].Kind)
	}
	if body[2].Kind != ast.Data {
		t.Errorf("END statement kind = %v, want Data", body[2].Kind)
	}
}

func TestSettingInBlock(t *testing.T) {
	f := mustParse(t, "*** Test Cases ***\nTest\n    [Tags]    smoke    slow\n")
	st := f.Sections[0].Blocks[0].Body[0]
	if st.Kind != ast.Setting {
		t.Fatalf("statement kind = %v, want Setting", st.Kind)
	}
	want := []token.Kind{token.SettingName, token.Argument, token.Argument}
	if diff := cmp.Diff(want, contentKinds(st)); diff != "" {
		t.Errorf("cell kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestContinuationJoinsStatement(t *testing.T) {
	text := "*** Test Cases ***\nTest\n    Log Many    a\n    ...    b    # note\n"
	f := mustParse(t, text)
	body := f.Sections[0].Blocks[0].Body
	if len(body) != 1 {
		t.Fatalf("body = %d statements, want 1", len(body))
	}
	st := body[0]
	if st.FirstLine() != 3 || st.LastLine() != 4 {
		t.Errorf("statement span = [%d, %d], want [3, 4]", st.FirstLine(), st.LastLine())
	}
	want := []string{"Log Many", "a", "b", "# note"}
	var got []string
	for _, c := range st.Cells() {
		got = append(got, c.Text)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestInlineCommentIsOneToken(t *testing.T) {
	f := mustParse(t, "*** Settings ***\nLibrary    X    # robotidy: off = RenameVariables\n")
	st := f.Sections[0].Body[0]
	comments := st.Comments()
	if len(comments) != 1 {
		t.Fatalf("got %d comment tokens, want 1", len(comments))
	}
	if got := comments[0].Text; got != "# robotidy: off = RenameVariables" {
		t.Errorf("comment text = %q", got)
	}
}

func TestInvalidUTF8(t *testing.T) {
	if _, err := ParseBytes("bad.robot", []byte{0x2a, 0xff, 0xfe}); err == nil {
		t.Fatalf("ParseBytes() expected error for invalid UTF-8")
	}
}

func TestCommentBetweenBlocksStaysInOrder(t *testing.T) {
	text := "*** Test Cases ***\nOne\n    Log    x\n# between\nTwo\n    Log    y\n"
	f := mustParse(t, text)
	if got := ast.Text(f); got != text {
		t.Fatalf("render is not byte-identical:\n got %q\nwant %q", got, text)
	}
	sec := f.Sections[0]
	if len(sec.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(sec.Blocks))
	}
	one := sec.Blocks[0]
	last := one.Body[len(one.Body)-1]
	if last.Kind != ast.CommentLine {
		t.Errorf("trailing statement kind = %v, want CommentLine", last.Kind)
	}
}
