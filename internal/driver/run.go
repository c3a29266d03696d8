package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kkotenko/robotframework-tidy/internal/ast"
	"github.com/kkotenko/robotframework-tidy/internal/diag"
	"github.com/kkotenko/robotframework-tidy/internal/disablers"
	"github.com/kkotenko/robotframework-tidy/internal/files"
	"github.com/kkotenko/robotframework-tidy/internal/parser"
	"github.com/kkotenko/robotframework-tidy/internal/source"
	"github.com/kkotenko/robotframework-tidy/internal/textdiff"
	"github.com/kkotenko/robotframework-tidy/internal/transform"
)

// Run discovers the configured sources and formats them. A sole "-"
// source switches to stdin machine mode instead.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if files.Stdin(r.cfg.Src) {
		return r.runStdin()
	}
	paths, err := r.Files(ctx)
	if err != nil {
		return Summary{}, err
	}
	return r.RunFiles(ctx, paths)
}

// Files resolves the configured sources to the sorted list of suite
// files a run would process.
func (r *Runner) Files(ctx context.Context) ([]string, error) {
	return files.Discover(ctx, r.cfg.Src, r.excludes)
}

// RunFiles formats an already-discovered file list. Tasks run in
// parallel; each goroutine owns a unique index of the results slice, so
// no lock guards it. Reporting and write-back happen after the group
// joins, in path order, keeping output deterministic regardless of
// completion order.
func (r *Runner) RunFiles(ctx context.Context, paths []string) (Summary, error) {
	if r.cfg.Output != "" && len(paths) > 1 {
		return Summary{}, fmt.Errorf("--output requires a single source file, got %d", len(paths))
	}
	if len(paths) == 0 {
		return r.finish(nil)
	}

	jobs := r.cfg.Concurrency
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	r.log.Debug("run planned",
		zap.Int("files", len(paths)),
		zap.Int("jobs", jobs),
		zap.Strings("transformers", r.plan))

	results := make([]Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = r.processOne(path)
			r.notify(&results[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}
	return r.finish(results)
}

// processOne runs the full pipeline for one file on disk.
func (r *Runner) processOne(path string) Result {
	src, err := source.Load(path)
	if err != nil {
		bag := diag.NewBag()
		bag.Addf(diag.SevError, diag.CodeParseFailure, path, 0, "", "%v", err)
		return Result{Path: path, Status: StatusSkippedError, Diags: bag}
	}
	// The cache answers "did this exact content with this exact config
	// come out unchanged before". An --output run bypasses it: the user
	// wants the rendition produced no matter what.
	if r.cfg.Output == "" && r.cache.Clean(src.Content) {
		r.log.Debug("cache hit", zap.String("path", src.Path))
		return Result{Path: src.Path, Status: StatusUnchanged, Diags: diag.NewBag(), FromCache: true}
	}
	res := r.processSource(src)
	if res.Status == StatusUnchanged && r.cfg.Output == "" {
		r.cache.MarkClean(src.Content)
	}
	return res
}

// processSource formats one loaded file. It never writes anything; the
// caller decides what happens to the rendition.
func (r *Runner) processSource(src *source.File) Result {
	res := Result{Path: src.Path, Diags: diag.NewBag()}

	f, err := parser.Parse(src)
	if err != nil {
		res.Diags.Addf(diag.SevError, diag.CodeParseFailure, src.Path, 0, "", "%v", err)
		res.Status = StatusSkippedError
		return res
	}
	dm := r.resolver.Resolve(f)
	if dm.IsDisabledInFile(disablers.All) {
		r.log.Debug("file disabled", zap.String("path", src.Path))
		res.Status = StatusSkippedDisabled
		return res
	}

	// Rerun the pipeline until the text stops moving or the rerun
	// budget is spent. Every extra pass reparses, so statement lines
	// and disabler ranges match the text being rewritten. Diagnostics
	// of the final pass win: they describe the emitted output.
	prev := string(src.Content)
	rendered := prev
	for pass := 0; ; pass++ {
		bag := diag.NewBag()
		tctx := transform.NewContext(src.Path, dm, bag, r.layout)
		r.pipeline.Run(f, tctx)
		rendered = ast.Text(f)
		res.Diags = bag
		res.Passes = pass + 1
		if rendered == prev || pass >= r.cfg.Reruns {
			break
		}
		prev = rendered
		nf, perr := parser.ParseBytes(src.Path, []byte(rendered))
		if perr != nil {
			break
		}
		f = nf
		dm = r.resolver.Resolve(f)
	}

	if rendered != string(src.Content) {
		// Line separator policy applies only to files the pipeline
		// changed; untouched files are never rewritten.
		if sep, enforced := r.cfg.LineSeparatorText(); enforced {
			ast.ApplyLineSep(f, sep)
			rendered = ast.Text(f)
		}
		res.Status = StatusReformatted
		res.Output = []byte(rendered)
		if r.cfg.Diff {
			res.Diff = textdiff.Unified(src.Path, string(src.Content), rendered)
		}
		r.log.Debug("reformatted",
			zap.String("path", src.Path),
			zap.Int("passes", res.Passes))
	} else {
		res.Status = StatusUnchanged
	}
	if r.cfg.Output != "" && res.Output == nil {
		res.Output = []byte(rendered)
	}
	return res
}

// finish reports results in path order, persists changed files and
// assembles the summary. Write failures do not stop the remaining
// files; each one is reported as it happens and the run ends with a
// flat error carrying only the count.
func (r *Runner) finish(results []Result) (Summary, error) {
	rep := newReporter(r.stdout, r.stderr, r.cfg.Check, r.cfg.Verbose)
	var sum Summary
	var failed int
	for i := range results {
		res := &results[i]
		rep.diags(res)
		if err := r.writeBack(res); err != nil {
			rep.failure(err)
			failed++
		} else {
			rep.line(res)
		}
		switch res.Status {
		case StatusReformatted:
			sum.Reformatted++
		case StatusUnchanged:
			sum.Unchanged++
		default:
			sum.Skipped++
		}
	}
	rep.summary(sum)
	if err := r.cache.Save(); err != nil {
		r.log.Warn("cache save failed", zap.Error(err))
	}
	if failed > 0 {
		return sum, fmt.Errorf("failed to write %d file(s)", failed)
	}
	return sum, nil
}

// writeBack persists one result per the run mode. Check and dry runs
// write nothing; an --output path receives the rendition even when it
// matches the input.
func (r *Runner) writeBack(res *Result) error {
	if r.cfg.Check || r.cfg.NoOverwrite {
		return nil
	}
	if r.cfg.Output != "" {
		if res.Output == nil {
			return nil
		}
		return writeFile(r.cfg.Output, res.Output)
	}
	if res.Status != StatusReformatted {
		return nil
	}
	if err := writeFile(res.Path, res.Output); err != nil {
		return err
	}
	r.cache.MarkClean(res.Output)
	return nil
}

// runStdin formats standard input as one virtual file. Machine mode:
// the rendition goes to stdout and the summary stays silent, so the
// command composes in a shell pipe.
func (r *Runner) runStdin() (Summary, error) {
	sum := Summary{Stdin: true}
	src, err := source.ReadStdin()
	if err != nil {
		return sum, err
	}
	res := r.processSource(src)
	rep := newReporter(r.stdout, r.stderr, r.cfg.Check, r.cfg.Verbose)
	rep.diags(&res)

	out := src.Content
	switch res.Status {
	case StatusReformatted:
		sum.Reformatted++
		out = res.Output
	case StatusUnchanged:
		sum.Unchanged++
	case StatusSkippedDisabled:
		sum.Skipped++
	case StatusSkippedError:
		sum.Skipped++
		return sum, errors.New("standard input was not formatted")
	}

	switch {
	case r.cfg.Diff:
		rep.diff(&res)
	case r.cfg.Check:
		// the exit code carries the outcome
	case r.cfg.Output != "":
		return sum, writeFile(r.cfg.Output, out)
	default:
		if _, err := r.stdout.Write(out); err != nil {
			return sum, fmt.Errorf("write stdout: %w", err)
		}
	}
	return sum, nil
}

func writeFile(path string, data []byte) error {
	// #nosec G306 -- suite files are world-readable sources
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
