package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chung-leong/trambar-cli/internal/trambar"
)

// configRestartModel is shown after a save that touched values a running
// service reads. It offers to restart exactly those services.
type configRestartModel struct {
	rt       trambar.Runtime
	cfg      trambar.Config
	services []string
	cursor   int
	busy     bool
	errMsg   string
}

func newConfigRestartModel(rt trambar.Runtime, cfg trambar.Config, services []string) *configRestartModel {
	return &configRestartModel{rt: rt, cfg: cfg, services: services}
}

func (m *configRestartModel) Init() tea.Cmd {
	return nil
}

func (m *configRestartModel) restart() tea.Cmd {
	rt, cfg := m.rt, m.cfg
	services := m.services
	return func() tea.Msg {
		return actionDoneMsg{err: trambar.Restart(rt, cfg, services...)}
	}
}

func (m *configRestartModel) Update(msg tea.Msg) (*configRestartModel, tea.Cmd) {
	switch msg := msg.(type) {
	case actionDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Up), key.Matches(msg, keys.Left):
			m.cursor = 0
		case key.Matches(msg, keys.Down), key.Matches(msg, keys.Right):
			m.cursor = 1
		case key.Matches(msg, keys.Back):
			return m, tea.Quit
		case key.Matches(msg, keys.Enter):
			if m.cursor == 0 {
				m.busy = true
				m.errMsg = ""
				return m, m.restart()
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *configRestartModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Apply Changes"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Saved. These services read the changed values and need a restart:"))
	b.WriteString("\n\n")
	for _, svc := range m.services {
		b.WriteString("    " + normalStyle.Render(svc))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	options := []string{"Restart them now", "Later (trambar restart)"}
	for i, opt := range options {
		if i == m.cursor {
			b.WriteString("  " + cursorChar + " " + selectedStyle.Render(opt))
		} else {
			b.WriteString("    " + normalStyle.Render(opt))
		}
		b.WriteString("\n")
	}

	if m.busy {
		b.WriteString("\n  " + mutedStyle.Render("restarting..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(footerHelp(keys.Up, keys.Down, keys.Enter, keys.Back))
	return b.String()
}
