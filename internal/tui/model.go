package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mpix/internal/engine"
)

type Model struct {
	events     <-chan engine.Event
	cancel     context.CancelFunc
	started    time.Time
	width      int
	total      int
	completed  int
	failed     int
	cancelled  int
	workers    []string
	cancelling bool
	quitting   bool
}

type doneMsg struct{}

type eventMsg engine.Event

// NewModel renders progress for one run. cancel is invoked on ctrl+c so the
// engine can drain cooperatively; the model itself quits only when the event
// channel closes.
func NewModel(events <-chan engine.Event, cancel context.CancelFunc) Model {
	return Model{events: events, cancel: cancel, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.apply(engine.Event(msg))
		return m, listenForEvents(m.events)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.cancelling = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) apply(ev engine.Event) {
	switch ev.Kind {
	case engine.EventRunStarted:
		m.total = ev.Total
		m.workers = make([]string, ev.Workers)
	case engine.EventJobStarted:
		if ev.WorkerID >= 0 && ev.WorkerID < len(m.workers) {
			m.workers[ev.WorkerID] = ev.File
		}
	case engine.EventJobFinished:
		if ev.WorkerID >= 0 && ev.WorkerID < len(m.workers) {
			m.workers[ev.WorkerID] = ""
		}
		// Finished events carry absolute totals; event delivery is lossy
		// under backpressure, so counting deltas here would drift.
		m.total = ev.Total
		m.completed = ev.Completed
		m.failed = ev.Failed
		m.cancelled = ev.Cancelled
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	done := m.completed + m.failed + m.cancelled
	ratio := 0.0
	if m.total > 0 {
		ratio = float64(done) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	title := "mpix"
	if m.cancelling {
		title += dimStyle.Render("  (cancelling, finishing in-flight files)")
	}

	lines := []string{
		titleStyle.Render(title),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", done, m.total)) +
			dimStyle.Render(fmt.Sprintf("  failed:%d cancelled:%d", m.failed, m.cancelled)),
	}

	for i, file := range m.workers {
		status := dimStyle.Render("idle")
		if file != "" {
			status = fileStyle.Render(file)
		}
		lines = append(lines, labelStyle.Render(fmt.Sprintf("Worker %d: ", i+1))+status)
	}

	lines = append(lines,
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", time.Since(m.started).Round(time.Millisecond))),
		barStyle.Render(renderBar(barWidth, ratio)),
	)

	return strings.Join(lines, "\n")
}

func listenForEvents(events <-chan engine.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	fileStyle  = lipgloss.NewStyle().Foreground(ColorAccent)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
