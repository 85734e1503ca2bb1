package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type countdownModel struct {
	remaining int
	step      time.Duration
	color     bool
	done      bool
}

type tickMsg time.Time

func newCountdownModel(seconds int, step time.Duration, color bool) countdownModel {
	return countdownModel{remaining: seconds, step: step, color: color}
}

func (m countdownModel) Init() tea.Cmd {
	return tick(m.step)
}

func (m countdownModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if m.remaining <= 1 {
			m.done = true
			return m, tea.Quit
		}
		m.remaining--
		return m, tick(m.step)
	default:
		return m, nil
	}
}

// View keeps the last message on screen once the countdown finishes.
func (m countdownModel) View() string {
	return render(waitStyle, CountdownMessage(m.remaining), m.color)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
