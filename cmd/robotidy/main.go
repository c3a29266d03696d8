package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kkotenko/robotframework-tidy/internal/version"
)

// errCheckChanges marks a clean run where --check still found work to
// do. It maps onto its own exit code and prints nothing: the summary
// already told the user what would change.
var errCheckChanges = errors.New("files would be reformatted")

var errorColor = color.New(color.FgRed, color.Bold)

var rootCmd = &cobra.Command{
	Use:   "robotidy [flags] [path ...]",
	Short: "Format Robot Framework source files",
	Long: `Robotidy rewrites Robot Framework files into a canonical layout.

Paths may name files or directories; directories are walked for .robot
and .resource files. Pass "-" as the only path to format standard input
and print the result to standard output.`,
	Args: cobra.ArbitraryArgs,
	RunE: runFormat,
	// Errors print once, in main, with the exit code that fits them.
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errCheckChanges) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, errorColor.Sprintf("robotidy: %v", err))
		os.Exit(2)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
