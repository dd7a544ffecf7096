package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chung-leong/trambar-cli/internal/trambar"
)

type completeModel struct {
	state  *wizardState
	cursor int // 0=Open Dashboard hint, 1=Exit
}

func newCompleteModel(state *wizardState) *completeModel {
	return &completeModel{state: state}
}

func (m *completeModel) Init() tea.Cmd {
	m.cursor = 0
	return nil
}

func (m *completeModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Back) || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *completeModel) View() string {
	var b strings.Builder

	b.WriteString(successStyle.Render("  Installation Complete!"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Location:  %s\n", normalStyle.Render(trambar.GetPrefix())))
	b.WriteString(fmt.Sprintf("  Address:   %s\n", selectedStyle.Render("https://"+m.state.domain+"/")))
	b.WriteString(fmt.Sprintf("  Account:   %s\n", normalStyle.Render("root")))

	if len(m.state.addons) > 0 {
		b.WriteString(fmt.Sprintf("  Add-ons:   %s\n", normalStyle.Render(strings.Join(m.state.addons, ", "))))
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  Next Steps"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ trambar status              # check container status"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  $ trambar cert add %s  # obtain a TLS certificate", m.state.domain)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ trambar dash                # live service dashboard"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  $ trambar doctor              # verify system"))
	b.WriteString("\n\n")

	b.WriteString("  " + borderStyle.Render(selectedStyle.Render("Exit")))

	b.WriteString(helpStyle.Render("\n\n  enter: exit"))
	return b.String()
}
