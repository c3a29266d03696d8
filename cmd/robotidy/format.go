package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/kkotenko/robotframework-tidy/internal/config"
	"github.com/kkotenko/robotframework-tidy/internal/driver"
	"github.com/kkotenko/robotframework-tidy/internal/files"
)

func init() {
	registerFormatFlags(rootCmd)
}

// registerFormatFlags declares the formatting flag set. Defaults come
// from config.Default so help text and the merge logic cannot drift
// apart.
func registerFormatFlags(cmd *cobra.Command) {
	d := config.Default()
	flags := cmd.Flags()

	flags.StringArrayP("transform", "t", nil, "run only these transformers; NAME or NAME:param=value, repeatable")
	flags.StringArrayP("configure", "c", nil, "set a transformer parameter; NAME:param=value, repeatable")
	flags.Bool("check", d.Check, "report files that would change and write nothing")
	flags.Bool("diff", d.Diff, "print a unified diff for every changed file")
	flags.Bool("no-overwrite", d.NoOverwrite, "format without writing changes back")
	flags.StringP("output", "o", d.Output, "write the result of a single source to this path")
	flags.IntP("spacecount", "s", d.SpaceCount, "spaces between cells")
	flags.Int("indent", d.Indent, "spaces per block indent level (0 follows --spacecount)")
	flags.Int("continuation-indent", d.ContinuationIndent, "spaces after a continuation marker (0 follows --spacecount)")
	flags.Int("line-length", d.LineLength, "maximum line width")
	flags.String("separator", d.Separator, "cell separator: space or tab")
	flags.String("lineseparator", d.LineSeparator, "line endings for rewritten files: native, windows, unix or auto")
	flags.Int("startline", d.StartLine, "first line to format, 1-based (0 means the whole file)")
	flags.Int("endline", d.EndLine, "last line to format, 1-based (0 means end of file)")
	flags.String("exclude", d.Exclude, "regex of paths to skip instead of the built-in default")
	flags.String("extend-exclude", d.ExtendExclude, "regex of paths to skip on top of the default")
	flags.String("config", "", "read this configuration file instead of discovering one")
	flags.Int("target-version", d.TargetVersion, "target Robot Framework major version (4-7)")
	flags.Bool("force-order", d.ForceOrder, "run --transform transformers in the order given")
	flags.IntP("reruns", "r", d.Reruns, "extra stabilization passes per file (0-10)")
	flags.Bool("cache", d.Cache, "skip files whose content formatted clean on a previous run")
	flags.Int("concurrency", d.Concurrency, "files formatted in parallel (0 means one per CPU)")
	flags.BoolP("verbose", "v", d.Verbose, "debug logging and per-file notes")
	flags.String("color", d.Color, "colorize output: auto, on or off")
	flags.Bool("progress", d.Progress, "show a live progress display")
}

func runFormat(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, cfgPath, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	applyColorMode(cfg.Color)

	log, closeLog, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer closeLog()
	if cfgPath != "" {
		log.Debug("configuration file loaded", zap.String("path", cfgPath))
	}

	sum, err := execute(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	if sum.ExitCode(cfg.Check) != 0 {
		return errCheckChanges
	}
	return nil
}

// execute validates the configuration, discovers sources and runs the
// formatter, optionally behind the interactive display.
func execute(ctx context.Context, cfg *config.Config, log *zap.Logger) (driver.Summary, error) {
	r, err := driver.New(cfg, driver.Options{Logger: log})
	if err != nil {
		return driver.Summary{}, err
	}
	if files.Stdin(cfg.Src) {
		return r.Run(ctx)
	}
	paths, err := r.Files(ctx)
	if err != nil {
		return driver.Summary{}, err
	}
	if useProgress(cfg, len(paths)) {
		// The display owns the terminal, so the run needs a runner
		// wired for buffered output and completion events.
		return runFilesWithUI(ctx, cfg, log, paths)
	}
	return r.RunFiles(ctx, paths)
}

// buildConfig assembles the effective configuration: defaults first,
// then the configuration file, then every flag the user set. Positional
// arguments always win as the source list. The second return value is
// the path of the applied configuration file, if any.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, string, error) {
	cfg := config.Default()
	flags := cmd.Flags()

	searchRoots := args
	if len(searchRoots) == 0 {
		searchRoots = []string{"."}
	}

	cfgPath := ""
	if flags.Changed("config") {
		cfgPath, _ = flags.GetString("config")
	} else {
		found, ok, err := config.DiscoverFile(searchRoots)
		if err != nil {
			return nil, "", err
		}
		if ok {
			cfgPath = found
		}
	}
	if cfgPath != "" {
		fc, err := config.Load(cfgPath)
		if err != nil {
			return nil, "", err
		}
		fc.Apply(&cfg)
	}

	applyFlags(flags, &cfg)

	if len(args) > 0 {
		cfg.Src = args
	}
	if len(cfg.Src) == 0 {
		return nil, "", errors.New("no source path provided, run robotidy --help to see usage")
	}
	return &cfg, cfgPath, nil
}

// applyFlags overlays the flags the user actually set onto cfg, leaving
// defaults and file-provided values alone otherwise.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) {
	flagStringArray(flags, "transform", &cfg.Transform)
	flagStringArray(flags, "configure", &cfg.Configure)
	flagBool(flags, "check", &cfg.Check)
	flagBool(flags, "diff", &cfg.Diff)
	flagBool(flags, "no-overwrite", &cfg.NoOverwrite)
	flagString(flags, "output", &cfg.Output)
	flagInt(flags, "spacecount", &cfg.SpaceCount)
	flagInt(flags, "indent", &cfg.Indent)
	flagInt(flags, "continuation-indent", &cfg.ContinuationIndent)
	flagInt(flags, "line-length", &cfg.LineLength)
	flagString(flags, "separator", &cfg.Separator)
	flagString(flags, "lineseparator", &cfg.LineSeparator)
	flagInt(flags, "startline", &cfg.StartLine)
	flagInt(flags, "endline", &cfg.EndLine)
	flagString(flags, "exclude", &cfg.Exclude)
	flagString(flags, "extend-exclude", &cfg.ExtendExclude)
	flagInt(flags, "target-version", &cfg.TargetVersion)
	flagBool(flags, "force-order", &cfg.ForceOrder)
	flagInt(flags, "reruns", &cfg.Reruns)
	flagBool(flags, "cache", &cfg.Cache)
	flagInt(flags, "concurrency", &cfg.Concurrency)
	flagBool(flags, "verbose", &cfg.Verbose)
	flagString(flags, "color", &cfg.Color)
	flagBool(flags, "progress", &cfg.Progress)
}

func flagString(flags *pflag.FlagSet, name string, dst *string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetString(name)
	}
}

func flagInt(flags *pflag.FlagSet, name string, dst *int) {
	if flags.Changed(name) {
		*dst, _ = flags.GetInt(name)
	}
}

func flagBool(flags *pflag.FlagSet, name string, dst *bool) {
	if flags.Changed(name) {
		*dst, _ = flags.GetBool(name)
	}
}

func flagStringArray(flags *pflag.FlagSet, name string, dst *[]string) {
	if flags.Changed(name) {
		*dst, _ = flags.GetStringArray(name)
	}
}

// newLogger builds the run logger. Verbose runs log debug output to
// stderr; quiet runs log nothing at all.
func newLogger(verbose bool) (*zap.Logger, func(), error) {
	if !verbose {
		return zap.NewNop(), func() {}, nil
	}
	logger, err := zap.NewDevelopmentConfig().Build()
	if err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}
