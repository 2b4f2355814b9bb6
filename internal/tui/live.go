// Package tui is the live terminal monitor for posterior sampling.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const (
	graphWidth      = 70
	graphHeight     = 10
	historyCapacity = 600
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// ProgressMsg carries one sampler step into the UI.
type ProgressMsg struct {
	Step       int
	Total      int
	LogProb    []float64
	Acceptance float64
}

// DoneMsg ends the session; a non-nil Err is shown before quitting.
type DoneMsg struct {
	Err error
}

// Monitor bridges the sampler callback to the running program. OnStep
// is safe to call from the sampling goroutine and never blocks; stale
// progress is dropped rather than queued.
type Monitor struct {
	updates chan tea.Msg
	done    chan tea.Msg
}

func NewMonitor() *Monitor {
	return &Monitor{
		updates: make(chan tea.Msg, 64),
		done:    make(chan tea.Msg, 1),
	}
}

func (mon *Monitor) OnStep(step, total int, logProb []float64, acceptance float64) {
	msg := ProgressMsg{Step: step, Total: total, LogProb: logProb, Acceptance: acceptance}
	select {
	case mon.updates <- msg:
	default:
	}
}

// Done may be called at most once.
func (mon *Monitor) Done(err error) {
	mon.done <- DoneMsg{Err: err}
}

func (mon *Monitor) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-mon.done:
			return msg
		case msg := <-mon.updates:
			return msg
		}
	}
}

// Model renders sampler progress: step counter, acceptance rate and the
// trace of the ensemble's mean log posterior.
type Model struct {
	monitor *Monitor
	cancel  func()

	step       int
	total      int
	walkers    int
	acceptance float64
	best       float64
	history    []float64
	err        error
	cancelled  bool
}

func NewModel(monitor *Monitor, cancel func()) Model {
	return Model{
		monitor: monitor,
		cancel:  cancel,
		best:    math.Inf(-1),
		history: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.monitor.wait()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancelled = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case ProgressMsg:
		m.step = msg.Step
		m.total = msg.Total
		m.walkers = len(msg.LogProb)
		m.acceptance = msg.Acceptance

		mean := 0.0
		for _, lp := range msg.LogProb {
			mean += lp
			if lp > m.best {
				m.best = lp
			}
		}
		if m.walkers > 0 {
			mean /= float64(m.walkers)
		}
		if !math.IsInf(mean, 0) && !math.IsNaN(mean) {
			m.history = append(m.history, mean)
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, m.monitor.wait()
	case DoneMsg:
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("POSTERIOR SAMPLING") + "\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	if m.total > 0 {
		row("step", fmt.Sprintf("%d / %d (%.0f%%)", m.step, m.total, 100*float64(m.step)/float64(m.total)))
	} else {
		row("step", "waiting for sampler")
	}
	row("walkers", fmt.Sprintf("%d", m.walkers))
	row("acceptance", fmt.Sprintf("%.3f", m.acceptance))
	if !math.IsInf(m.best, -1) {
		row("best log p", fmt.Sprintf("%.4f", m.best))
	}

	if len(m.history) >= 2 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("mean log posterior"),
		)
		s.WriteString(graphStyle.Render(graph) + "\n")
	}

	if m.err != nil {
		s.WriteString(warnStyle.Render("error: "+m.err.Error()) + "\n")
	}
	if m.cancelled {
		s.WriteString(warnStyle.Render("cancelling...") + "\n")
	}
	s.WriteString(helpStyle.Render("q: stop and keep draws so far"))
	return s.String()
}
