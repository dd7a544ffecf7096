package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chung-leong/trambar-cli/internal/trambar"
)

// StartAddonManager runs the interactive add-on manager against the
// installation at prefix (empty means the default location).
func StartAddonManager(prefix string) error {
	cfg, err := trambar.RequireInstalled(prefix)
	if err != nil {
		return err
	}
	rt, err := trambar.DetectRuntime()
	if err != nil {
		return err
	}

	p := tea.NewProgram(newAddonManagerModel(rt, cfg), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
