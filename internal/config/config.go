// Package config holds the resolved run configuration and its merge
// order: built-in defaults, then a discovered or explicit config file,
// then command-line flags.
package config

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/kkotenko/robotframework-tidy/internal/files"
	"github.com/kkotenko/robotframework-tidy/internal/transform"
)

// Config is the fully merged run configuration.
type Config struct {
	Transform []string
	Configure []string
	Src       []string

	Exclude       string
	ExtendExclude string

	SpaceCount         int
	Indent             int // 0 follows SpaceCount
	ContinuationIndent int // 0 follows SpaceCount
	LineLength         int
	Separator          string // space|tab
	LineSeparator      string // native|windows|unix|auto

	StartLine int
	EndLine   int

	Check       bool
	Diff        bool
	NoOverwrite bool
	Output      string

	TargetVersion int
	ForceOrder    bool
	Reruns        int

	Cache       bool
	Concurrency int
	Verbose     bool
	Color       string // auto|on|off
	Progress    bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SpaceCount:    4,
		LineLength:    120,
		Separator:     "space",
		LineSeparator: "native",
		TargetVersion: 7,
		Color:         "auto",
	}
}

// Validate checks ranges and enumerations after the merge.
func (c *Config) Validate() error {
	if c.SpaceCount < 1 {
		return fmt.Errorf("spacecount must be at least 1, got %d", c.SpaceCount)
	}
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Indent)
	}
	if c.ContinuationIndent < 0 {
		return fmt.Errorf("continuation-indent must not be negative, got %d", c.ContinuationIndent)
	}
	if c.LineLength < 1 {
		return fmt.Errorf("line-length must be at least 1, got %d", c.LineLength)
	}
	switch c.Separator {
	case "space", "tab":
	default:
		return fmt.Errorf("invalid separator %q: expected space or tab", c.Separator)
	}
	switch c.LineSeparator {
	case "native", "windows", "unix", "auto":
	default:
		return fmt.Errorf("invalid lineseparator %q: expected native, windows, unix or auto", c.LineSeparator)
	}
	switch c.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid color mode %q: expected auto, on or off", c.Color)
	}
	if c.TargetVersion < 4 || c.TargetVersion > 7 {
		return fmt.Errorf("invalid target version %d: supported versions are 4 through 7", c.TargetVersion)
	}
	if c.Reruns < 0 || c.Reruns > 10 {
		return fmt.Errorf("reruns must be between 0 and 10, got %d", c.Reruns)
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.StartLine < 0 || c.EndLine < 0 {
		return errors.New("startline and endline must be positive")
	}
	if c.EndLine > 0 && c.StartLine == 0 {
		return errors.New("endline requires startline")
	}
	if c.EndLine > 0 && c.EndLine < c.StartLine {
		return fmt.Errorf("endline %d precedes startline %d", c.EndLine, c.StartLine)
	}
	return nil
}

// Layout maps the spacing knobs onto the transformer layout. Indent and
// continuation indent inherit spacecount when unset.
func (c *Config) Layout() transform.Layout {
	lay := transform.DefaultLayout()
	lay.SpaceCount = c.SpaceCount
	lay.Indent = c.Indent
	if lay.Indent == 0 {
		lay.Indent = c.SpaceCount
	}
	lay.ContinuationIndent = c.ContinuationIndent
	if lay.ContinuationIndent == 0 {
		lay.ContinuationIndent = c.SpaceCount
	}
	lay.Separator = c.Separator
	lay.LineLength = c.LineLength
	return lay
}

// Excludes compiles the exclusion patterns for source discovery. Empty
// strings keep the discovery defaults.
func (c *Config) Excludes() (files.Options, error) {
	var opts files.Options
	if c.Exclude != "" {
		re, err := regexp.Compile(c.Exclude)
		if err != nil {
			return opts, fmt.Errorf("invalid exclude pattern: %w", err)
		}
		opts.Exclude = re
	}
	if c.ExtendExclude != "" {
		re, err := regexp.Compile(c.ExtendExclude)
		if err != nil {
			return opts, fmt.Errorf("invalid extend-exclude pattern: %w", err)
		}
		opts.ExtendExclude = re
	}
	return opts, nil
}

// Selections parses the transform and configure specs. Configure entries
// must carry at least one parameter.
func (c *Config) Selections() (selected, configured []transform.Selection, err error) {
	for _, spec := range c.Transform {
		sel, err := transform.ParseSelection(spec)
		if err != nil {
			return nil, nil, err
		}
		selected = append(selected, sel)
	}
	for _, spec := range c.Configure {
		sel, err := transform.ParseSelection(spec)
		if err != nil {
			return nil, nil, err
		}
		if len(sel.Params) == 0 {
			return nil, nil, fmt.Errorf("nothing to configure in %q: expected NAME:param=value", spec)
		}
		configured = append(configured, sel)
	}
	return selected, configured, nil
}

// LineSeparatorText returns the line ending to enforce on rewritten
// files. The second result is false for auto, which keeps each file's
// own line ending.
func (c *Config) LineSeparatorText() (string, bool) {
	switch c.LineSeparator {
	case "windows":
		return "\r\n", true
	case "unix":
		return "\n", true
	case "native":
		if runtime.GOOS == "windows" {
			return "\r\n", true
		}
		return "\n", true
	default:
		return "", false
	}
}

// Fingerprint canonicalizes every knob that can change formatted output.
// Cache entries are keyed on it, so the schema prefix changes whenever a
// field is added.
func (c *Config) Fingerprint() string {
	fields := []string{
		"v1",
		strings.Join(c.Transform, "\x1f"),
		strings.Join(c.Configure, "\x1f"),
		strconv.Itoa(c.SpaceCount),
		strconv.Itoa(c.Indent),
		strconv.Itoa(c.ContinuationIndent),
		strconv.Itoa(c.LineLength),
		c.Separator,
		c.LineSeparator,
		strconv.Itoa(c.StartLine),
		strconv.Itoa(c.EndLine),
		strconv.Itoa(c.TargetVersion),
		strconv.FormatBool(c.ForceOrder),
		strconv.Itoa(c.Reruns),
	}
	return strings.Join(fields, "\x1e")
}
