package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chung-leong/trambar-cli/internal/trambar"
)

type checksMsg []trambar.CheckResult

// checkHints maps failing environment checks to the shortest useful fix.
var checkHints = map[string]string{
	"docker binary":  "install Docker Engine: https://docs.docker.com/engine/install/",
	"compose tool":   "install the docker-compose-plugin package",
	"docker daemon":  "start it: systemctl start docker",
	"certbot binary": "needed for Let's Encrypt: apt install certbot",
}

func hintFor(name string) string {
	if h, ok := checkHints[name]; ok {
		return h
	}
	switch {
	case strings.HasSuffix(name, "writable"):
		return "run as root or pass --prefix pointing at a writable directory"
	case strings.HasPrefix(name, "disk space"):
		return "free up space on the installation volume"
	case strings.HasPrefix(name, "ports"):
		return "stop whatever is listening on the proxy ports"
	}
	return ""
}

type preflightModel struct {
	spinner  spinner.Model
	running  bool
	results  []trambar.CheckResult
	failures int
}

func newPreflightModel() *preflightModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return &preflightModel{spinner: sp}
}

func (m *preflightModel) Init() tea.Cmd {
	return m.rerun()
}

func (m *preflightModel) rerun() tea.Cmd {
	m.running = true
	m.results = nil
	m.failures = 0
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return checksMsg(trambar.RunChecks())
	})
}

func (m *preflightModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case checksMsg:
		m.running = false
		m.results = msg
		m.failures = 0
		for _, r := range m.results {
			if !r.OK {
				m.failures++
			}
		}
		return m, nil

	case tea.KeyMsg:
		if m.running {
			return m, nil
		}
		switch {
		case key.Matches(msg, keys.Enter):
			return m, func() tea.Msg { return checksPassedMsg{} }
		case key.Matches(msg, keys.Back):
			return m, func() tea.Msg { return formBackMsg{} }
		case msg.String() == "r":
			return m, m.rerun()
		}
	}
	return m, nil
}

func (m *preflightModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("System Checks"))
	b.WriteString("\n\n")

	if m.running {
		b.WriteString(fmt.Sprintf("  %s Checking this machine can run a Trambar server...\n", m.spinner.View()))
		return b.String()
	}

	for _, r := range m.results {
		if r.OK {
			b.WriteString(fmt.Sprintf("  %s %s\n", successStyle.Render("ok"), normalStyle.Render(r.Name)))
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s: %s\n",
			errorStyle.Render("--"), normalStyle.Render(r.Name), mutedStyle.Render(r.Err.Error())))
		if hint := hintFor(r.Name); hint != "" {
			b.WriteString("       " + warningStyle.Render(hint))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.failures == 0 {
		b.WriteString(successStyle.Render("  Everything looks good."))
		b.WriteString(helpStyle.Render("\n\n  enter: begin installation  r: re-run  esc: back"))
	} else {
		b.WriteString(warningStyle.Render(fmt.Sprintf("  %d check(s) failed. Installing anyway may not work.", m.failures)))
		b.WriteString(helpStyle.Render("\n\n  enter: install anyway  r: re-run  esc: back"))
	}
	return b.String()
}
