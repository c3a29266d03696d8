package main

import (
	"testing"

	"github.com/fatih/color"

	"github.com/kkotenko/robotframework-tidy/internal/config"
	"github.com/kkotenko/robotframework-tidy/internal/driver"
	"github.com/kkotenko/robotframework-tidy/internal/ui"
)

func TestUIStatusMapping(t *testing.T) {
	cases := map[driver.FileStatus]ui.Status{
		driver.StatusReformatted:     ui.StatusReformatted,
		driver.StatusUnchanged:       ui.StatusUnchanged,
		driver.StatusSkippedDisabled: ui.StatusSkipped,
		driver.StatusSkippedError:    ui.StatusFailed,
	}
	for in, want := range cases {
		if got := uiStatus(in); got != want {
			t.Errorf("uiStatus(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestChannelSinkNilChannel(t *testing.T) {
	var s channelSink
	s.FileDone("x.robot", driver.StatusUnchanged) // must not panic
}

func TestChannelSinkForwards(t *testing.T) {
	ch := make(chan ui.Event, 1)
	s := channelSink{ch: ch}
	s.FileDone("x.robot", driver.StatusReformatted)

	ev := <-ch
	if ev.Path != "x.robot" || ev.Status != ui.StatusReformatted {
		t.Errorf("forwarded event = %+v", ev)
	}
}

func TestUseProgressExplicit(t *testing.T) {
	cfg := config.Default()
	cfg.Progress = true
	if !useProgress(&cfg, 1) {
		t.Error("explicit --progress must always win")
	}
}

func TestUseProgressAutoNeedsTerminal(t *testing.T) {
	cfg := config.Default()
	// Test output is piped, so the auto path must stay off no matter
	// how large the run is.
	if useProgress(&cfg, 10000) {
		t.Error("piped stdout must not get the display")
	}
}

func TestApplyColorMode(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })
	t.Setenv("NO_COLOR", "1")

	applyColorMode("on")
	if color.NoColor {
		t.Error("explicit on must override NO_COLOR")
	}
	applyColorMode("off")
	if !color.NoColor {
		t.Error("off must disable color")
	}
	color.NoColor = false
	applyColorMode("auto")
	if !color.NoColor {
		t.Error("NO_COLOR must win in auto mode")
	}
}
