package main

import (
	"bytes"
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/kkotenko/robotframework-tidy/internal/config"
	"github.com/kkotenko/robotframework-tidy/internal/driver"
	"github.com/kkotenko/robotframework-tidy/internal/ui"
)

// runOutcome carries the background run result across the UI boundary.
type runOutcome struct {
	sum driver.Summary
	err error
}

// channelSink forwards per-file completions into the display channel.
type channelSink struct {
	ch chan<- ui.Event
}

func (s channelSink) FileDone(path string, status driver.FileStatus) {
	if s.ch == nil {
		return
	}
	s.ch <- ui.Event{Path: path, Status: uiStatus(status)}
}

func uiStatus(status driver.FileStatus) ui.Status {
	switch status {
	case driver.StatusReformatted:
		return ui.StatusReformatted
	case driver.StatusSkippedDisabled:
		return ui.StatusSkipped
	case driver.StatusSkippedError:
		return ui.StatusFailed
	default:
		return ui.StatusUnchanged
	}
}

// runFilesWithUI formats in a background goroutine while a Bubble Tea
// program owns the terminal. Per-file lines, diffs and the summary
// buffer until the display shuts down, then replay to the real streams
// in one piece.
func runFilesWithUI(ctx context.Context, cfg *config.Config, log *zap.Logger, paths []string) (driver.Summary, error) {
	events := make(chan ui.Event, 256)
	outcome := make(chan runOutcome, 1)

	var outBuf, errBuf bytes.Buffer
	r, err := driver.New(cfg, driver.Options{
		Logger: log,
		Sink:   channelSink{ch: events},
		Stdout: &outBuf,
		Stderr: &errBuf,
	})
	if err != nil {
		return driver.Summary{}, err
	}

	go func() {
		sum, runErr := r.RunFiles(ctx, paths)
		outcome <- runOutcome{sum: sum, err: runErr}
		close(events)
	}()

	model := ui.NewProgressModel("robotidy", len(paths), events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	// Unblock any workers still sending if the display died early.
	go func() {
		for range events {
		}
	}()
	res := <-outcome

	_, _ = os.Stdout.Write(outBuf.Bytes())
	_, _ = os.Stderr.Write(errBuf.Bytes())

	if res.err != nil {
		return res.sum, res.err
	}
	return res.sum, uiErr
}
