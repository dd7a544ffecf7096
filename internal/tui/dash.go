package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chung-leong/trambar-cli/internal/trambar"
)

type dashTab int

const (
	dashTabServices dashTab = iota
	dashTabDetail
)

type containerInfo struct {
	Service string
	State   string
	Health  string
	CPU     string
	Mem     string
	Ports   string
}

type refreshMsg struct {
	containers []containerInfo
	err        error
}

type tickMsg time.Time

// StartDashboard runs the live service dashboard against the installation
// at prefix (empty means the default location).
func StartDashboard(prefix string) error {
	cfg, err := trambar.RequireInstalled(prefix)
	if err != nil {
		return err
	}
	rt, err := trambar.DetectRuntime()
	if err != nil {
		return err
	}
	m := newDashModel(rt, cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

type dashModel struct {
	rt          trambar.Runtime
	cfg         trambar.Config
	activeTab   dashTab
	containers  []containerInfo
	rowCursor   int
	detailModel *dashDetailModel
	fetchErr    error
	width       int
	height      int
}

func newDashModel(rt trambar.Runtime, cfg trambar.Config) dashModel {
	return dashModel{
		rt:          rt,
		cfg:         cfg,
		activeTab:   dashTabServices,
		detailModel: newDashDetailModel(),
	}
}

func (m dashModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(5*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type composePS struct {
	Service string `json:"Service"`
	State   string `json:"State"`
	Health  string `json:"Health"`
	Ports   string `json:"Ports"`
}

func (m dashModel) fetch() tea.Cmd {
	rt, cfg := m.rt, m.cfg
	return func() tea.Msg {
		args := trambar.ComposeBaseArgs(rt, cfg)
		args = append(args, "ps", "--format", "json")
		out, err := trambar.RunCmdCapture(rt.Compose[0], args...)
		if err != nil {
			return refreshMsg{err: fmt.Errorf("compose ps failed: %s", strings.TrimSpace(out))}
		}

		var containers []containerInfo
		// compose ps --format json outputs one JSON object per line
		for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			var ps composePS
			if err := json.Unmarshal([]byte(line), &ps); err != nil {
				continue
			}
			containers = append(containers, containerInfo{
				Service: ps.Service,
				State:   ps.State,
				Health:  ps.Health,
				Ports:   ps.Ports,
			})
		}

		if stats, err := trambar.CollectStats(rt, cfg); err == nil {
			for _, s := range stats {
				for i := range containers {
					if strings.Contains(s.Name, containers[i].Service) {
						containers[i].CPU = s.CPU
						containers[i].Mem = s.MemPct
					}
				}
			}
		}

		return refreshMsg{containers: containers}
	}
}

func (m dashModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
		switch {
		case msg.String() == "q" || key.Matches(msg, keys.Back):
			if m.activeTab == dashTabDetail {
				m.activeTab = dashTabServices
				return m, nil
			}
			return m, tea.Quit
		case key.Matches(msg, keys.Tab):
			m.activeTab = (m.activeTab + 1) % 2
			return m, nil
		case msg.String() == "1":
			m.activeTab = dashTabServices
		case msg.String() == "2":
			m.activeTab = dashTabDetail
		}

		switch m.activeTab {
		case dashTabServices:
			return m.updateServices(msg)
		case dashTabDetail:
			return m.updateDetail(msg)
		}

	case refreshMsg:
		m.fetchErr = msg.err
		if msg.err == nil {
			m.containers = msg.containers
			if m.rowCursor >= len(m.containers) && len(m.containers) > 0 {
				m.rowCursor = len(m.containers) - 1
			}
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetch(), tickCmd())
	}

	return m, nil
}

func (m dashModel) updateServices(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up) && m.rowCursor > 0:
		m.rowCursor--
	case key.Matches(msg, keys.Down) && m.rowCursor < len(m.containers)-1:
		m.rowCursor++
	case key.Matches(msg, keys.Enter):
		if m.rowCursor < len(m.containers) {
			m.detailModel.container = &m.containers[m.rowCursor]
			m.activeTab = dashTabDetail
		}
	case msg.String() == "r":
		if m.rowCursor < len(m.containers) {
			svc := m.containers[m.rowCursor].Service
			return m, m.restartService(svc)
		}
	case msg.String() == "l":
		if m.rowCursor < len(m.containers) {
			return m, m.execLogs(m.containers[m.rowCursor].Service)
		}
	case msg.String() == "x":
		if m.rowCursor < len(m.containers) {
			return m, m.execShell(m.containers[m.rowCursor].Service)
		}
	}
	return m, nil
}

func (m dashModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "l":
		if m.detailModel.container != nil {
			return m, m.execLogs(m.detailModel.container.Service)
		}
	case msg.String() == "x":
		if m.detailModel.container != nil {
			return m, m.execShell(m.detailModel.container.Service)
		}
	case msg.String() == "r":
		if m.detailModel.container != nil {
			return m, m.restartService(m.detailModel.container.Service)
		}
	}
	return m, nil
}

type actionDoneMsg struct{ err error }

func (m dashModel) restartService(service string) tea.Cmd {
	rt, cfg := m.rt, m.cfg
	return func() tea.Msg {
		args := trambar.ComposeBaseArgs(rt, cfg)
		args = append(args, "restart", service)
		_, err := trambar.RunCmdCapture(rt.Compose[0], args...)
		return actionDoneMsg{err: err}
	}
}

func (m dashModel) execLogs(service string) tea.Cmd {
	args := trambar.ComposeBaseArgs(m.rt, m.cfg)
	args = append(args, "logs", "-f", "--tail", "200", service)
	return tea.ExecProcess(execCmd(m.rt.Compose[0], args...), func(err error) tea.Msg {
		return actionDoneMsg{err: err}
	})
}

func (m dashModel) execShell(service string) tea.Cmd {
	args := trambar.ComposeBaseArgs(m.rt, m.cfg)
	args = append(args, "exec", service, "sh")
	return tea.ExecProcess(execCmd(m.rt.Compose[0], args...), func(err error) tea.Msg {
		return actionDoneMsg{err: err}
	})
}

func (m dashModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Trambar Dashboard"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  " + m.cfg.Domain + "  (" + m.cfg.Prefix + ")"))
	b.WriteString("\n")

	tabs := []string{"Services", "Detail"}
	for i, tab := range tabs {
		if dashTab(i) == m.activeTab {
			b.WriteString(activeTabStyle.Render(tab))
		} else {
			b.WriteString(inactiveTabStyle.Render(tab))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	switch m.activeTab {
	case dashTabServices:
		b.WriteString(m.viewServices())
	case dashTabDetail:
		b.WriteString(m.detailModel.View())
	}

	b.WriteString(helpStyle.Render("\n  tab/1-2: switch tabs  j/k: navigate  enter: detail  r: restart  l: logs  x: shell  q: quit"))
	return b.String()
}

func (m dashModel) viewServices() string {
	var b strings.Builder

	if m.fetchErr != nil {
		b.WriteString(errorStyle.Render("  " + m.fetchErr.Error()))
		b.WriteString("\n")
		return b.String()
	}

	if len(m.containers) == 0 {
		b.WriteString(mutedStyle.Render("  No containers running. Run 'trambar start' first."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("     %-20s %-12s %-10s %-8s %-8s %s\n",
		tableHeaderStyle.Render("SERVICE"),
		tableHeaderStyle.Render("STATE"),
		tableHeaderStyle.Render("HEALTH"),
		tableHeaderStyle.Render("CPU"),
		tableHeaderStyle.Render("MEM"),
		tableHeaderStyle.Render("PORTS")))

	for i, c := range m.containers {
		prefix := "  "
		if i == m.rowCursor {
			prefix = cursorChar
		}

		stateStyle := statusRunning
		if c.State != "running" {
			stateStyle = statusStopped
		}

		health := orDash(c.Health)
		cpu := orDash(c.CPU)
		mem := orDash(c.Mem)
		ports := orDash(c.Ports)

		b.WriteString(fmt.Sprintf("  %s %-20s %-12s %-10s %-8s %-8s %s\n",
			prefix,
			normalStyle.Render(c.Service),
			stateStyle.Render(c.State),
			mutedStyle.Render(health),
			mutedStyle.Render(cpu),
			mutedStyle.Render(mem),
			mutedStyle.Render(ports)))
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
