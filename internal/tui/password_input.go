package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type passwordInputModel struct {
	state   *wizardState
	first   textinput.Model
	second  textinput.Model
	stage   int
	errMsg  string
	pending string
}

func newPasswordInputModel(state *wizardState) *passwordInputModel {
	mk := func() textinput.Model {
		ti := textinput.New()
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.CharLimit = 128
		ti.Width = 40
		return ti
	}
	return &passwordInputModel{
		state:  state,
		first:  mk(),
		second: mk(),
	}
}

func (m *passwordInputModel) Init() tea.Cmd {
	m.stage = 0
	m.pending = ""
	m.first.SetValue("")
	m.second.SetValue("")
	m.second.Blur()
	m.first.Focus()
	return textinput.Blink
}

func (m *passwordInputModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Back) {
			return m, func() tea.Msg { return formBackMsg{} }
		}
		if key.Matches(msg, keys.Enter) {
			if m.stage == 0 {
				val := m.first.Value()
				if len(val) < 8 {
					m.errMsg = "Password must be at least 8 characters"
					return m, nil
				}
				m.errMsg = ""
				m.pending = val
				m.stage = 1
				m.first.Blur()
				m.second.Focus()
				return m, textinput.Blink
			}
			if m.second.Value() != m.pending {
				m.errMsg = "Passwords do not match"
				m.stage = 0
				m.pending = ""
				m.first.SetValue("")
				m.second.SetValue("")
				m.second.Blur()
				m.first.Focus()
				return m, textinput.Blink
			}
			m.errMsg = ""
			m.state.password = m.pending
			return m, func() tea.Msg { return formNextMsg{} }
		}
	}

	var cmd tea.Cmd
	if m.stage == 0 {
		m.first, cmd = m.first.Update(msg)
	} else {
		m.second, cmd = m.second.Update(msg)
	}
	return m, cmd
}

func (m *passwordInputModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Root Password"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Sets the password for the root administrator account."))
	b.WriteString("\n\n")
	b.WriteString("  Password:  " + m.first.View())
	b.WriteString("\n")
	if m.stage == 1 {
		b.WriteString("  Repeat:    " + m.second.View())
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString(footerHelp(keys.Enter, keys.Back, keys.Help))
	return b.String()
}
