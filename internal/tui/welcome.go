package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var logo = `
 ████████╗██████╗  █████╗ ███╗   ███╗██████╗  █████╗ ██████╗
 ╚══██╔══╝██╔══██╗██╔══██╗████╗ ████║██╔══██╗██╔══██╗██╔══██╗
    ██║   ██████╔╝███████║██╔████╔██║██████╔╝███████║██████╔╝
    ██║   ██╔══██╗██╔══██║██║╚██╔╝██║██╔══██╗██╔══██║██╔══██╗
    ██║   ██║  ██║██║  ██║██║ ╚═╝ ██║██████╔╝██║  ██║██║  ██║
    ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝
`

type menuItem struct {
	label string
	desc  string
}

type welcomeModel struct {
	cursor int
	items  []menuItem
}

func newWelcomeModel() *welcomeModel {
	return &welcomeModel{
		items: []menuItem{
			{label: "Install Server", desc: "Set up a new Trambar deployment on this machine"},
			{label: "Exit", desc: "Quit the setup wizard"},
		},
	}
}

func (m *welcomeModel) Init() tea.Cmd {
	return nil
}

func (m *welcomeModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Up) && m.cursor > 0 {
			m.cursor--
		}
		if key.Matches(msg, keys.Down) && m.cursor < len(m.items)-1 {
			m.cursor++
		}
		if key.Matches(msg, keys.Enter) {
			switch m.cursor {
			case 0:
				return m, func() tea.Msg { return formNextMsg{} }
			case 1:
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *welcomeModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(logo))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Trambar Setup Wizard"))
	b.WriteString("\n\n")

	for i, item := range m.items {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s\n", cursorChar, selectedStyle.Render(item.label)))
		} else {
			b.WriteString(fmt.Sprintf("    %s\n", normalStyle.Render(item.label)))
		}
		b.WriteString(fmt.Sprintf("    %s\n", mutedStyle.Render(item.desc)))
	}

	b.WriteString(footerHelp(keys.Up, keys.Down, keys.Enter, keys.Help, keys.Quit))
	return b.String()
}
