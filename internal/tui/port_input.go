package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type portKind int

const (
	portHTTP portKind = iota
	portHTTPS
)

type portInputModel struct {
	state  *wizardState
	kind   portKind
	input  textinput.Model
	errMsg string
}

func newPortInputModel(state *wizardState, kind portKind) *portInputModel {
	ti := textinput.New()
	ti.CharLimit = 5
	ti.Width = 10
	if kind == portHTTP {
		ti.Placeholder = "80"
	} else {
		ti.Placeholder = "443"
	}

	return &portInputModel{
		state: state,
		kind:  kind,
		input: ti,
	}
}

func (m *portInputModel) defaultPort() string {
	if m.kind == portHTTP {
		return "80"
	}
	return "443"
}

func (m *portInputModel) savedPort() string {
	if m.kind == portHTTP {
		return m.state.httpPort
	}
	return m.state.httpsPort
}

func (m *portInputModel) Init() tea.Cmd {
	if p := m.savedPort(); p != "" {
		m.input.SetValue(p)
	}
	m.input.Focus()
	return textinput.Blink
}

func (m *portInputModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Back) {
			return m, func() tea.Msg { return formBackMsg{} }
		}
		if key.Matches(msg, keys.Enter) {
			val := strings.TrimSpace(m.input.Value())
			if val == "" {
				val = m.defaultPort()
			}
			if err := validatePort(val); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.errMsg = ""
			if m.kind == portHTTP {
				m.state.httpPort = val
			} else {
				m.state.httpsPort = val
			}
			return m, func() tea.Msg { return formNextMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *portInputModel) View() string {
	var b strings.Builder

	if m.kind == portHTTP {
		b.WriteString(titleStyle.Render("HTTP Port"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Port the proxy listens on for plain HTTP."))
	} else {
		b.WriteString(titleStyle.Render("HTTPS Port"))
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("Port the proxy listens on for TLS."))
	}
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	}

	b.WriteString("\n  " + mutedStyle.Render("Leave blank for the default ("+m.defaultPort()+")."))
	b.WriteString(footerHelp(keys.Enter, keys.Back, keys.Help))
	return b.String()
}
