package driver

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/kkotenko/robotframework-tidy/internal/diag"
	"github.com/kkotenko/robotframework-tidy/internal/textdiff"
)

var (
	wouldColor = color.New(color.Bold)
	errColor   = color.New(color.FgRed)
	warnColor  = color.New(color.FgYellow)
)

// reporter renders one run's outcomes. Stdout carries what the user
// asked for (reformat lines, diffs, the summary); findings go to
// stderr. Read and parse failures always print; the softer statement
// notes only show up in verbose runs.
type reporter struct {
	out     io.Writer
	errOut  io.Writer
	check   bool
	verbose bool
}

func newReporter(out, errOut io.Writer, check, verbose bool) *reporter {
	return &reporter{out: out, errOut: errOut, check: check, verbose: verbose}
}

func (rp *reporter) diags(res *Result) {
	if res.Diags == nil || res.Diags.Len() == 0 {
		return
	}
	res.Diags.Sort()
	for _, d := range res.Diags.Items() {
		if !rp.verbose && d.Code != diag.CodeParseFailure && d.Code != diag.CodeConfigurationError {
			continue
		}
		line := d.String()
		switch {
		case d.Severity >= diag.SevError:
			line = errColor.Sprint(line)
		case d.Severity == diag.SevWarning:
			line = warnColor.Sprint(line)
		}
		fmt.Fprintln(rp.errOut, line)
	}
}

func (rp *reporter) line(res *Result) {
	if res.Status == StatusReformatted {
		if rp.check {
			fmt.Fprintln(rp.out, wouldColor.Sprintf("would reformat %s", res.Path))
		} else {
			fmt.Fprintf(rp.out, "reformatted %s\n", res.Path)
		}
	}
	rp.diff(res)
}

func (rp *reporter) diff(res *Result) {
	if res.Diff == "" {
		return
	}
	fmt.Fprint(rp.out, textdiff.Colorize(res.Diff))
}

func (rp *reporter) failure(err error) {
	fmt.Fprintln(rp.errOut, errColor.Sprintf("robotidy: %v", err))
}

func (rp *reporter) summary(sum Summary) {
	fmt.Fprintf(rp.out, "\n%s\n", sum.Line())
}
