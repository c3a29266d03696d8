// Package ui renders the interactive progress display for long runs on
// a terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Status is the terminal state of one processed file.
type Status int

const (
	StatusReformatted Status = iota
	StatusUnchanged
	StatusSkipped
	StatusFailed
)

// Event reports one finished file to the display.
type Event struct {
	Path   string
	Status Status
}

// recentLines caps the rolling tail of finished files shown above the bar.
const recentLines = 5

type eventMsg Event
type doneMsg struct{}

type progressModel struct {
	title    string
	events   <-chan Event
	spinner  spinner.Model
	bar      progress.Model
	total    int
	done     int
	counts   map[Status]int
	recent   []Event
	width    int
	finished bool
}

// NewProgressModel returns a Bubble Tea model fed by per-file completion
// events. It quits when the event channel closes.
func NewProgressModel(title string, total int, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		total:   total,
		counts:  make(map[Status]int),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.finished = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.done, m.total)
	if m.finished {
		header = "done: " + header
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := m.width - 16
	if nameWidth < 20 {
		nameWidth = 20
	}
	for _, ev := range m.recent {
		label := statusStyle(ev.Status).Render(fmt.Sprintf("%11s", statusLabel(ev.Status)))
		fmt.Fprintf(&b, "  %s %s\n", label, truncate(ev.Path, nameWidth))
	}

	b.WriteString("\n")
	if m.finished {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	b.WriteString(m.countsLine())
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) countsLine() string {
	parts := []string{
		fmt.Sprintf("%d reformatted", m.counts[StatusReformatted]),
		fmt.Sprintf("%d unchanged", m.counts[StatusUnchanged]),
	}
	if n := m.counts[StatusSkipped]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	if n := m.counts[StatusFailed]; n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	return lipgloss.NewStyle().Faint(true).Render(strings.Join(parts, ", "))
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev Event) tea.Cmd {
	m.done++
	m.counts[ev.Status]++
	m.recent = append(m.recent, ev)
	if len(m.recent) > recentLines {
		m.recent = m.recent[1:]
	}
	if m.total == 0 {
		return nil
	}
	return m.bar.SetPercent(float64(m.done) / float64(m.total))
}

func statusLabel(s Status) string {
	switch s {
	case StatusReformatted:
		return "reformatted"
	case StatusUnchanged:
		return "unchanged"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return ""
	}
}

func statusStyle(s Status) lipgloss.Style {
	switch s {
	case StatusReformatted:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case StatusSkipped:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
