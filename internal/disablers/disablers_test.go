package disablers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kkotenko/robotframework-tidy/internal/parser"
)

func resolveText(t *testing.T, text string, startLine, endLine int) *Map {
	t.Helper()
	f, err := parser.ParseBytes("test.robot", []byte(text))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return NewResolver(startLine, endLine).Resolve(f)
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		text      string
		wantOK    bool
		wantOff   bool
		wantNames []string
	}{
		{"# robotidy: off", true, true, []string{All}},
		{"#robotidy: off", true, true, []string{All}},
		{"# robotidy:off", true, true, []string{All}},
		{"# robotidy: on", true, false, []string{All}},
		{"# robotidy: off = RenameVariables", true, true, []string{"RenameVariables"}},
		{"# robotidy: off=A,B", true, true, []string{"A", "B"}},
		{"# robotidy: off = A, B ,C", true, true, []string{"A", "B", "C"}},
		{"# robotidy: off trailing words", true, true, []string{All}},
		{"# robotidy: off = ,", true, true, nil},
		{"# robotidy: off = X  # tail", true, true, []string{"X"}},
		{"# plain comment", false, false, nil},
		{"# robotidy off", false, false, nil},
		{"  # robotidy: on", true, false, []string{All}},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			d, ok := parseDirective(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("parseDirective(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if d.off != tt.wantOff {
				t.Errorf("off = %v, want %v", d.off, tt.wantOff)
			}
			if diff := cmp.Diff(tt.wantNames, d.names); diff != "" {
				t.Errorf("names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOffOnRangeInsideBlock(t *testing.T) {
	text := "*** Test Cases ***\n" +
		"Test\n" +
		"    Log    a\n" +
		"    # robotidy: off\n" +
		"    Log    b\n" +
		"    # robotidy: on\n" +
		"    Log    c\n"
	m := resolveText(t, text, 0, 0)

	if m.IsNodeDisabled("SplitTooLongLine", 3, 3) {
		t.Errorf("line 3 disabled before the off directive")
	}
	if !m.IsNodeDisabled("SplitTooLongLine", 5, 5) {
		t.Errorf("line 5 not disabled inside the off range")
	}
	if m.IsNodeDisabled("SplitTooLongLine", 7, 7) {
		t.Errorf("line 7 disabled after the on directive")
	}
}

func TestOffClosesAtBlockEnd(t *testing.T) {
	text := "*** Test Cases ***\n" +
		"One\n" +
		"    # robotidy: off\n" +
		"    Log    a\n" +
		"\n" +
		"Two\n" +
		"    Log    b\n"
	m := resolveText(t, text, 0, 0)

	if !m.IsNodeDisabled("RenameVariables", 4, 4) {
		t.Errorf("line 4 inside the first test not disabled")
	}
	if m.IsNodeDisabled("RenameVariables", 7, 7) {
		t.Errorf("off leaked past the end of its test case")
	}
}

func TestLineStartCommentUsesSectionScope(t *testing.T) {
	text := "*** Test Cases ***\n" +
		"One\n" +
		"    Log    a\n" +
		"# robotidy: off\n" +
		"Two\n" +
		"    Log    b\n"
	m := resolveText(t, text, 0, 0)

	if m.IsNodeDisabled("RenameVariables", 3, 3) {
		t.Errorf("line 3 disabled before the directive")
	}
	if !m.IsNodeDisabled("RenameVariables", 6, 6) {
		t.Errorf("section-scoped off did not cover the following test")
	}
}

func TestFirstOffWins(t *testing.T) {
	text := "*** Keywords ***\n" +
		"Kw\n" +
		"    # robotidy: off\n" +
		"    Log    a\n" +
		"    # robotidy: off\n" +
		"    Log    b\n" +
		"    # robotidy: on\n" +
		"    Log    c\n"
	m := resolveText(t, text, 0, 0)

	if !m.IsNodeDisabled("X", 4, 4) || !m.IsNodeDisabled("X", 6, 6) {
		t.Errorf("lines between first off and on not disabled")
	}
	if m.IsNodeDisabled("X", 8, 8) {
		t.Errorf("line 8 disabled after on closed the range")
	}
}

func TestNamedOnClosesOnlyNamed(t *testing.T) {
	text := "*** Keywords ***\n" +
		"Kw\n" +
		"    # robotidy: off = RenameVariables\n" +
		"    # robotidy: on\n" +
		"    Log    x\n" +
		"    # robotidy: on = RenameVariables\n" +
		"    Log    y\n"
	m := resolveText(t, text, 0, 0)

	if !m.IsNodeDisabled("RenameVariables", 5, 5) {
		t.Errorf("unnamed on closed a named off")
	}
	if m.IsNodeDisabled("RenameVariables", 7, 7) {
		t.Errorf("named on did not close the range")
	}
	if m.IsNodeDisabled("SplitTooLongLine", 5, 5) {
		t.Errorf("named off disabled an unrelated transformer")
	}
}

func TestUnmatchedOnIsIgnored(t *testing.T) {
	text := "*** Keywords ***\n" +
		"Kw\n" +
		"    # robotidy: on\n" +
		"    Log    a\n"
	m := resolveText(t, text, 0, 0)
	if m.IsNodeDisabled("X", 3, 4) || m.IsNodeDisabled("X", 4, 4) {
		t.Errorf("unmatched on produced a disabled range")
	}
}

func TestInlineDisablerCoversStatementLines(t *testing.T) {
	text := "*** Test Cases ***\n" +
		"Test\n" +
		"    Log Many    a\n" +
		"    ...    b    # robotidy: off\n" +
		"    Log    c\n"
	m := resolveText(t, text, 0, 0)

	if !m.IsNodeDisabled("X", 3, 4) {
		t.Errorf("inline off did not cover the whole statement")
	}
	if !m.IsNodeDisabled("X", 3, 3) {
		t.Errorf("inline off did not cover a line inside the statement")
	}
	if m.IsNodeDisabled("X", 5, 5) {
		t.Errorf("inline off leaked onto the following statement")
	}
}

func TestInlineNamedDisabler(t *testing.T) {
	text := "*** Test Cases ***\n" +
		"Test\n" +
		"    Log    ${x}    # robotidy: off = RenameVariables\n"
	m := resolveText(t, text, 0, 0)

	if !m.IsNodeDisabled("RenameVariables", 3, 3) {
		t.Errorf("named inline off not recorded")
	}
	if m.IsNodeDisabled("SplitTooLongLine", 3, 3) {
		t.Errorf("named inline off disabled an unrelated transformer")
	}
}

func TestFileLevelDisabler(t *testing.T) {
	text := "# robotidy: off\n" +
		"*** Settings ***\n" +
		"Library    Collections\n"
	m := resolveText(t, text, 0, 0)

	if !m.IsDisabledInFile("anything") {
		t.Errorf("unclosed off in the leading comment run must disable the whole file")
	}
}

func TestFileLevelDisablerNamed(t *testing.T) {
	text := "# robotidy: off = ReplaceWithVAR\n" +
		"*** Settings ***\n" +
		"Library    Collections\n"
	m := resolveText(t, text, 0, 0)

	if !m.IsDisabledInFile("ReplaceWithVAR") {
		t.Errorf("named file-level off not recorded")
	}
	if m.IsDisabledInFile("RenameVariables") {
		t.Errorf("named file-level off disabled an unrelated transformer")
	}
}

func TestFileLevelCanceledByOn(t *testing.T) {
	text := "# robotidy: off\n" +
		"# robotidy: on\n" +
		"*** Settings ***\n" +
		"Library    Collections\n"
	m := resolveText(t, text, 0, 0)

	if m.IsDisabledInFile("anything") {
		t.Errorf("matched off/on pair must not disable the whole file")
	}
	if !m.IsNodeDisabled("anything", 1, 2) {
		t.Errorf("closed range in the comment run should still be recorded")
	}
}

func TestCommentsSectionNotFirstIsNotFileLevel(t *testing.T) {
	text := "*** Settings ***\n" +
		"Library    X\n" +
		"\n" +
		"*** Comments ***\n" +
		"# robotidy: off\n"
	m := resolveText(t, text, 0, 0)

	if m.IsDisabledInFile("anything") {
		t.Errorf("comments section that is not first must not scope to the file")
	}
	if !m.IsNodeDisabled("anything", 5, 5) {
		t.Errorf("off inside later comments section should disable its own range")
	}
}

func TestExplicitCommentsSectionFirstIsFileLevel(t *testing.T) {
	text := "*** Comments ***\n" +
		"# robotidy: off\n" +
		"\n" +
		"*** Settings ***\n" +
		"Library    X\n"
	m := resolveText(t, text, 0, 0)

	if !m.IsDisabledInFile("anything") {
		t.Errorf("explicit first comments section must scope to the file")
	}
}

func TestHeaderDisabler(t *testing.T) {
	text := "*** Settings ***    # robotidy: off = DiscardEmptySections\n" +
		"Library    X\n"
	m := resolveText(t, text, 0, 0)

	if !m.IsHeaderDisabled("DiscardEmptySections", 1) {
		t.Errorf("header disabler not recorded")
	}
	if m.IsHeaderDisabled("RenameVariables", 1) {
		t.Errorf("header disabler hit an unrelated transformer")
	}
	if m.IsHeaderDisabled("DiscardEmptySections", 2) {
		t.Errorf("header disabler recorded on the wrong line")
	}
}

func TestGlobalLineClamp(t *testing.T) {
	text := "*** Test Cases ***\n" +
		"Test\n" +
		"    Log    a\n" +
		"    Log    b\n" +
		"    Log    c\n"
	m := resolveText(t, text, 3, 4)

	if m.IsNodeDisabled("X", 3, 3) || m.IsNodeDisabled("X", 4, 4) {
		t.Errorf("lines inside the window must stay enabled")
	}
	if !m.IsNodeDisabled("X", 2, 2) {
		t.Errorf("line before the window must be disabled")
	}
	if !m.IsNodeDisabled("X", 5, 5) {
		t.Errorf("line after the window must be disabled")
	}
	if m.IsNodeDisabled("X", 4, 5) {
		t.Errorf("node straddling the window edge is not fully contained")
	}
}

func TestEndLineDefaultsToStartLine(t *testing.T) {
	text := "*** Test Cases ***\n" +
		"Test\n" +
		"    Log    a\n" +
		"    Log    b\n"
	m := resolveText(t, text, 3, 0)

	if m.IsNodeDisabled("X", 3, 3) {
		t.Errorf("the single selected line must stay enabled")
	}
	if !m.IsNodeDisabled("X", 4, 4) {
		t.Errorf("line past the single-line window must be disabled")
	}
}
