package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/kkotenko/robotframework-tidy/internal/config"
)

// progressThreshold is the run size above which a terminal run gets the
// interactive display without asking.
const progressThreshold = 16

// applyColorMode forces colored output on or off. Auto keeps the
// library default, except that a NO_COLOR environment or a piped stdout
// turns color off.
func applyColorMode(mode string) {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		if os.Getenv("NO_COLOR") != "" || !isTerminal(os.Stdout) {
			color.NoColor = true
		}
	}
}

// useProgress decides whether the interactive display runs. An explicit
// --progress always wins; otherwise big terminal runs get it, small or
// piped ones keep plain line output.
func useProgress(cfg *config.Config, fileCount int) bool {
	if cfg.Progress {
		return true
	}
	return isTerminal(os.Stdout) && fileCount > progressThreshold
}
