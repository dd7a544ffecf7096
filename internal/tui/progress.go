package tui

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chung-leong/trambar-cli/internal/trambar"
)

type stepStatus int

const (
	stepPending stepStatus = iota
	stepRunning
	stepDone
	stepFailed
)

type progressStep struct {
	label  string
	status stepStatus
	err    error
}

type stepDoneMsg struct {
	index int
	err   error
}

type progressModel struct {
	state   *wizardState
	steps   []progressStep
	spinner spinner.Model
	current int
	done    bool
	errMsg  string
}

func newProgressModel(state *wizardState) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &progressModel{
		state:   state,
		spinner: sp,
		steps: []progressStep{
			{label: "Writing configuration"},
			{label: "Pulling images"},
			{label: "Starting containers"},
		},
	}
}

func (m *progressModel) Init() tea.Cmd {
	// Reset state for fresh run
	m.current = 0
	m.done = false
	m.errMsg = ""
	for i := range m.steps {
		m.steps[i].status = stepPending
		m.steps[i].err = nil
	}
	m.steps[0].status = stepRunning

	return tea.Batch(m.spinner.Tick, m.runStep(0))
}

func (m *progressModel) config() (trambar.Config, error) {
	cfg, err := trambar.LoadConfig("")
	if err != nil {
		return trambar.Config{}, err
	}
	cfg.Domain = m.state.domain
	cfg.Email = m.state.email
	cfg.HTTPPort = m.state.httpPort
	cfg.HTTPSPort = m.state.httpsPort
	cfg.Dev = m.state.dev
	return cfg, nil
}

func (m *progressModel) runStep(index int) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch index {
		case 0:
			err = m.doConfigure()
		case 1:
			err = m.doPull()
		case 2:
			err = m.doStart()
		}
		return stepDoneMsg{index: index, err: err}
	}
}

// captureOutput runs fn with stdout/stderr redirected into a pipe. The pipe
// is drained concurrently; waiting until fn returned would deadlock once the
// output outgrows the kernel pipe buffer, which image pulls routinely do.
func captureOutput(fn func() error) (string, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return "", err
	}
	oldOut, oldErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = w, w

	drained := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		io.Copy(&buf, r)
		drained <- buf.String()
	}()

	runErr := fn()
	os.Stdout, os.Stderr = oldOut, oldErr
	w.Close()
	out := <-drained
	r.Close()
	return out, runErr
}

func (m *progressModel) doConfigure() error {
	cfg, err := m.config()
	if err != nil {
		return err
	}
	addons := trambar.AddAddonDependencies(m.state.addons)
	if err := trambar.ApplyConfig(cfg, addons); err != nil {
		return err
	}
	return trambar.SetRootPassword(cfg, m.state.password)
}

func (m *progressModel) doPull() error {
	cfg, err := m.config()
	if err != nil {
		return err
	}
	rt, err := trambar.DetectRuntime()
	if err != nil {
		return err
	}
	_, err = captureOutput(func() error {
		return trambar.PullImages(rt, cfg)
	})
	return err
}

func (m *progressModel) doStart() error {
	cfg, err := m.config()
	if err != nil {
		return err
	}
	rt, err := trambar.DetectRuntime()
	if err != nil {
		return err
	}
	return trambar.Up(rt, cfg)
}

func (m *progressModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case stepDoneMsg:
		m.steps[msg.index].status = stepDone
		if msg.err != nil {
			m.steps[msg.index].status = stepFailed
			m.steps[msg.index].err = msg.err
			m.errMsg = msg.err.Error()
			m.done = true
			return m, nil
		}

		next := msg.index + 1
		if next >= len(m.steps) {
			m.done = true
			return m, func() tea.Msg { return installDoneMsg{} }
		}
		m.current = next
		m.steps[next].status = stepRunning
		return m, m.runStep(next)

	case tea.KeyMsg:
		if m.done && m.errMsg != "" {
			if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Back) {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m *progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Installing"))
	b.WriteString("\n\n")

	for _, step := range m.steps {
		var icon string
		switch step.status {
		case stepPending:
			icon = mutedStyle.Render("  ")
		case stepRunning:
			icon = m.spinner.View()
		case stepDone:
			icon = successStyle.Render("OK")
		case stepFailed:
			icon = errorStyle.Render("XX")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", icon, normalStyle.Render(step.label)))
	}

	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("  Error: " + m.errMsg))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("\n  press enter or esc to exit"))
	}

	return b.String()
}
