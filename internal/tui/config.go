package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chung-leong/trambar-cli/internal/trambar"
)

// configSavedMsg reports a successful save along with the keys whose values
// changed. The root switches to the restart screen when any changed key is
// read by a running service.
type configSavedMsg struct {
	changed []string
}

// StartConfigEditor runs the interactive .env editor against the
// installation at prefix (empty means the default location).
func StartConfigEditor(prefix string) error {
	cfg, err := trambar.RequireInstalled(prefix)
	if err != nil {
		return err
	}
	rt, err := trambar.DetectRuntime()
	if err != nil {
		return err
	}

	p := tea.NewProgram(configRootModel{
		editor: newConfigEditorModel(cfg),
		rt:     rt,
		cfg:    cfg,
	}, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

type configRootModel struct {
	rt      trambar.Runtime
	cfg     trambar.Config
	editor  *configEditorModel
	restart *configRestartModel
}

func (m configRootModel) Init() tea.Cmd {
	return m.editor.Init()
}

func (m configRootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(configSavedMsg); ok {
		services := affectedServices(msg.changed)
		if len(services) == 0 {
			return m, nil
		}
		m.restart = newConfigRestartModel(m.rt, m.cfg, services)
		return m, m.restart.Init()
	}

	if m.restart != nil {
		next, cmd := m.restart.Update(msg)
		m.restart = next
		return m, cmd
	}
	next, cmd := m.editor.Update(msg)
	m.editor = next
	return m, cmd
}

func (m configRootModel) View() string {
	if m.restart != nil {
		return m.restart.View()
	}
	return m.editor.View()
}
