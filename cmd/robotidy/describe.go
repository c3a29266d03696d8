package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/kkotenko/robotframework-tidy/internal/transform"
)

var describeCmd = &cobra.Command{
	Use:   "describe <transformer>|all",
	Short: "Show documentation for one transformer, or the whole catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runDescribe,
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	reg := transform.NewRegistry()

	var sections []string
	if args[0] == "all" {
		for _, t := range reg.All() {
			sections = append(sections, describeDoc(t))
		}
	} else {
		t, ok := reg.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown transformer %q, run \"robotidy list\" for the catalog", args[0])
		}
		sections = append(sections, describeDoc(t))
	}
	doc := strings.Join(sections, "\n---\n\n")

	out := cmd.OutOrStdout()
	// Styled markdown only makes sense on a terminal; pipes get raw text.
	if !isTerminal(os.Stdout) {
		fmt.Fprintln(out, doc)
		return nil
	}
	rendered, err := renderMarkdown(doc)
	if err != nil {
		fmt.Fprintln(out, doc)
		return nil
	}
	fmt.Fprint(out, rendered)
	return nil
}

func describeDoc(t transform.Transformer) string {
	return fmt.Sprintf("# %s (Robot Framework %d+)\n\n%s", t.Name(), t.MinVersion(), t.Doc())
}

func renderMarkdown(doc string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(doc)
}
