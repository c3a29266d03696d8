// Package driver orchestrates a formatting run: it discovers source
// files, fans the per-file pipeline out over a worker pool, collects
// results deterministically and writes changed files back. The driver
// owns the run-level policy (check, diff, cache, reruns); everything
// below it works on one file at a time.
package driver

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/kkotenko/robotframework-tidy/internal/cache"
	"github.com/kkotenko/robotframework-tidy/internal/config"
	"github.com/kkotenko/robotframework-tidy/internal/diag"
	"github.com/kkotenko/robotframework-tidy/internal/disablers"
	"github.com/kkotenko/robotframework-tidy/internal/files"
	"github.com/kkotenko/robotframework-tidy/internal/transform"
)

// FileStatus classifies the outcome of one file task.
type FileStatus uint8

const (
	// StatusUnchanged means the rendered output matched the input bytes.
	StatusUnchanged FileStatus = iota
	// StatusReformatted means the output differs; whether it was written
	// back depends on the run mode.
	StatusReformatted
	// StatusSkippedDisabled means a whole-file disabler directive turned
	// every transformer off, so the file was left untouched.
	StatusSkippedDisabled
	// StatusSkippedError means the file could not be read or parsed.
	StatusSkippedError
)

func (s FileStatus) String() string {
	switch s {
	case StatusUnchanged:
		return "unchanged"
	case StatusReformatted:
		return "reformatted"
	case StatusSkippedDisabled:
		return "skipped"
	case StatusSkippedError:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of one file task. Output holds the rendered
// content when it differs from the input, or whenever an --output path
// demands the rendition regardless. Diff is only rendered when the run
// asked for diffs.
type Result struct {
	Path      string
	Status    FileStatus
	Output    []byte
	Diff      string
	Diags     *diag.Bag
	FromCache bool
	Passes    int
}

// Summary aggregates a finished run. Both skip flavors count into
// Skipped; the per-file results keep them apart.
type Summary struct {
	Reformatted int
	Unchanged   int
	Skipped     int
	Stdin       bool
}

// Line renders the closing summary sentence.
func (s Summary) Line() string {
	out := fmt.Sprintf("%d file%s reformatted, %d file%s left unchanged.",
		s.Reformatted, plural(s.Reformatted), s.Unchanged, plural(s.Unchanged))
	if s.Skipped > 0 {
		out += fmt.Sprintf(" %d file%s skipped.", s.Skipped, plural(s.Skipped))
	}
	return out
}

// ExitCode maps the outcome to the process exit code: 1 when check mode
// found files that would change, 0 otherwise. Runs that abort report
// their error separately and exit 2 at the CLI boundary.
func (s Summary) ExitCode(check bool) int {
	if check && s.Reformatted > 0 {
		return 1
	}
	return 0
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// ProgressSink receives completion events as file tasks finish, in
// completion order. Implementations must be safe for concurrent use.
type ProgressSink interface {
	FileDone(path string, status FileStatus)
}

// Options carries the run dependencies the CLI wires in. Zero values
// mean: no logging, no progress events, the process streams.
type Options struct {
	Logger *zap.Logger
	Sink   ProgressSink
	Stdout io.Writer
	Stderr io.Writer
}

// Runner executes formatting runs for one resolved configuration.
// The transformer pipeline is planned once at construction; instances
// are stateless after Configure, so tasks share them freely.
type Runner struct {
	cfg      *config.Config
	layout   transform.Layout
	pipeline *transform.Pipeline
	plan     []string
	resolver *disablers.Resolver
	excludes files.Options
	cache    *cache.Cache
	log      *zap.Logger
	sink     ProgressSink
	stdout   io.Writer
	stderr   io.Writer
}

// New validates cfg, plans the pipeline and prepares the cache. Any
// error here is a configuration error: nothing has touched a file yet.
func New(cfg *config.Config, opts Options) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	selected, configured, err := cfg.Selections()
	if err != nil {
		return nil, err
	}
	plan, err := transform.NewRegistry().Plan(selected, configured, cfg.TargetVersion, cfg.ForceOrder)
	if err != nil {
		return nil, err
	}
	excludes, err := cfg.Excludes()
	if err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:      cfg,
		layout:   cfg.Layout(),
		pipeline: transform.NewPipeline(plan),
		resolver: disablers.NewResolver(cfg.StartLine, cfg.EndLine),
		excludes: excludes,
		log:      opts.Logger,
		sink:     opts.Sink,
		stdout:   opts.Stdout,
		stderr:   opts.Stderr,
	}
	for _, t := range plan {
		r.plan = append(r.plan, t.Name())
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}
	if cfg.Cache {
		c, err := cache.Open(cfg.Fingerprint())
		if err != nil {
			r.log.Warn("cache unavailable", zap.Error(err))
		} else {
			r.cache = c
		}
	}
	return r, nil
}

// Plan lists the transformer names in execution order.
func (r *Runner) Plan() []string {
	return append([]string(nil), r.plan...)
}

func (r *Runner) notify(res *Result) {
	if r.sink == nil {
		return
	}
	r.sink.FileDone(res.Path, res.Status)
}
