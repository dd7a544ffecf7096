package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// summaryModel shows everything collected by the form. Each row can be
// re-entered directly; the action row at the bottom hands off to the
// pre-flight checks.
type summaryRow struct {
	label string
	value string
	step  int
}

type summaryModel struct {
	state  *wizardState
	rows   []summaryRow
	cursor int // len(rows) addresses the action row
}

func newSummaryModel(state *wizardState) *summaryModel {
	return &summaryModel{state: state}
}

func (m *summaryModel) Init() tea.Cmd {
	s := m.state
	addons := "(none)"
	if len(s.addons) > 0 {
		addons = strings.Join(s.addons, ", ")
	}
	m.rows = []summaryRow{
		{"Domain", s.domain, stepDomain},
		{"E-mail", s.email, stepEmail},
		{"HTTP port", s.httpPort, stepHTTPPort},
		{"HTTPS port", s.httpsPort, stepHTTPSPort},
		{"Password", "(hidden)", stepPassword},
		{"Add-ons", addons, stepAddons},
	}
	m.cursor = len(m.rows)
	return nil
}

// installCommands lists the CLI invocations equivalent to this wizard run.
func installCommands(s *wizardState) []string {
	cmds := []string{fmt.Sprintf(
		"trambar install --domain %s --email %s --http-port %s --https-port %s",
		s.domain, s.email, s.httpPort, s.httpsPort)}
	for _, a := range s.addons {
		cmds = append(cmds, "trambar enable "+a)
	}
	return append(cmds, "trambar start")
}

func (m *summaryModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Back):
		return m, func() tea.Msg { return formBackMsg{} }

	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.rows) {
			m.cursor++
		}

	case key.Matches(keyMsg, keys.Enter):
		if m.cursor < len(m.rows) {
			step := m.rows[m.cursor].step
			return m, func() tea.Msg { return formJumpMsg{step: step} }
		}
		return m, func() tea.Msg { return formNextMsg{} }
	}
	return m, nil
}

func (m *summaryModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Review"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Pick a row to change it, or continue to the system checks."))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		// Pad before styling so the ANSI codes do not skew the columns.
		padded := fmt.Sprintf("%-12s", row.label)
		prefix, label := "  ", normalStyle.Render(padded)
		if i == m.cursor {
			prefix, label = cursorChar, selectedStyle.Render(padded)
		}
		value := selectedStyle.Render(row.value)
		if row.step == stepPassword {
			value = secretStyle.Render(row.value)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", prefix, label, value))
	}

	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("  The same install from a shell:"))
	b.WriteString("\n")
	for _, cmd := range installCommands(m.state) {
		b.WriteString(mutedStyle.Render("  $ " + cmd))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	button := normalStyle.Render("[ Run pre-flight checks ]")
	if m.cursor == len(m.rows) {
		button = borderStyle.Render(selectedStyle.Render("Run pre-flight checks"))
	}
	b.WriteString("  " + button + "\n")

	b.WriteString(footerHelp(keys.Up, keys.Down, keys.Enter, keys.Back))
	return b.String()
}
