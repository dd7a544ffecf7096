package tui

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type dashDetailModel struct {
	container *containerInfo
}

func newDashDetailModel() *dashDetailModel {
	return &dashDetailModel{}
}

func (m *dashDetailModel) View() string {
	if m.container == nil {
		return mutedStyle.Render("  Select a service from the Services tab.")
	}

	var b strings.Builder

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("  Service: %s", m.container.Service)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  State:    %s\n", stateStyleFor(m.container.State).Render(m.container.State)))
	b.WriteString(fmt.Sprintf("  Health:   %s\n", mutedStyle.Render(orDash(m.container.Health))))
	b.WriteString(fmt.Sprintf("  CPU:      %s\n", mutedStyle.Render(orDash(m.container.CPU))))
	b.WriteString(fmt.Sprintf("  Memory:   %s\n", mutedStyle.Render(orDash(m.container.Mem))))
	b.WriteString(fmt.Sprintf("  Ports:    %s\n", mutedStyle.Render(orDash(m.container.Ports))))

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  r: restart  l: view logs  x: open shell  esc: back"))

	return b.String()
}

func stateStyleFor(state string) lipgloss.Style {
	if state == "running" {
		return statusRunning
	}
	return statusStopped
}

func execCmd(name string, args ...string) *exec.Cmd {
	return exec.Command(name, args...)
}
