package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chung-leong/trambar-cli/internal/trambar"
)

type configLoadedMsg struct {
	vars map[string]string
	err  error
}

type configWriteDoneMsg struct {
	changed []string
	err     error
}

// configEditorModel edits the installation's .env. Field order, masking,
// and validation all come from envSchema; keys the schema does not know
// (hand-added ones) show up at the bottom and are saved as-is.
type configEditorModel struct {
	cfg trambar.Config

	keys   []string
	vars   map[string]string
	orig   map[string]string
	cursor int

	editing bool
	input   textinput.Model

	fieldErr map[string]string
	unmask   map[string]bool

	status      string
	statusErr   bool
	busy        bool
	confirmQuit bool
}

func newConfigEditorModel(cfg trambar.Config) *configEditorModel {
	ti := textinput.New()
	ti.CharLimit = 128
	ti.Width = 48
	return &configEditorModel{
		cfg:      cfg,
		input:    ti,
		vars:     map[string]string{},
		orig:     map[string]string{},
		fieldErr: map[string]string{},
		unmask:   map[string]bool{},
	}
}

func (m *configEditorModel) Init() tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		vars, err := trambar.ReadDotEnv(trambar.DotEnvPath(cfg.Prefix))
		return configLoadedMsg{vars: vars, err: err}
	}
}

// orderKeys lists schema keys first, in schema order, then any extra keys
// from the file sorted at the end.
func orderKeys(vars map[string]string) []string {
	var keys []string
	for _, f := range envSchema {
		if _, ok := vars[f.key]; ok {
			keys = append(keys, f.key)
		}
	}
	var extra []string
	for k := range vars {
		if _, ok := schemaField(k); !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

func (m *configEditorModel) changedKeys() []string {
	var changed []string
	for _, k := range m.keys {
		if m.vars[k] != m.orig[k] {
			changed = append(changed, k)
		}
	}
	return changed
}

// validateAll refreshes fieldErr for every key and reports whether the file
// is clean.
func (m *configEditorModel) validateAll() bool {
	m.fieldErr = map[string]string{}
	for _, k := range m.keys {
		if err := checkValue(k, m.vars[k]); err != nil {
			m.fieldErr[k] = err.Error()
		}
	}
	return len(m.fieldErr) == 0
}

func (m *configEditorModel) write() tea.Cmd {
	cfg := m.cfg
	changed := m.changedKeys()
	updates := map[string]string{}
	for _, k := range changed {
		updates[k] = m.vars[k]
	}
	return func() tea.Msg {
		err := trambar.WriteDotEnv(trambar.DotEnvPath(cfg.Prefix), updates)
		return configWriteDoneMsg{changed: changed, err: err}
	}
}

func (m *configEditorModel) Update(msg tea.Msg) (*configEditorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case configLoadedMsg:
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		m.vars = msg.vars
		m.orig = map[string]string{}
		for k, v := range msg.vars {
			m.orig[k] = v
		}
		m.keys = orderKeys(msg.vars)
		return m, nil

	case configWriteDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		for k, v := range m.vars {
			m.orig[k] = v
		}
		m.status, m.statusErr = "saved", false
		if len(msg.changed) > 0 {
			changed := msg.changed
			return m, func() tea.Msg { return configSavedMsg{changed: changed} }
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *configEditorModel) updateKey(msg tea.KeyMsg) (*configEditorModel, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	if m.confirmQuit {
		if msg.String() == "y" {
			return m, tea.Quit
		}
		m.confirmQuit = false
		return m, nil
	}

	if m.editing {
		switch {
		case key.Matches(msg, keys.Back):
			m.editing = false
			m.input.Blur()
		case key.Matches(msg, keys.Enter):
			k := m.keys[m.cursor]
			val := strings.TrimSpace(m.input.Value())
			if err := checkValue(k, val); err != nil {
				m.fieldErr[k] = err.Error()
				return m, nil
			}
			delete(m.fieldErr, k)
			m.vars[k] = val
			m.editing = false
			m.input.Blur()
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back), msg.String() == "q":
		if len(m.changedKeys()) > 0 {
			m.confirmQuit = true
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Enter):
		if len(m.keys) == 0 {
			return m, nil
		}
		k := m.keys[m.cursor]
		m.editing = true
		m.status = ""
		m.input.SetValue(m.vars[k])
		m.input.Focus()
		if f, ok := schemaField(k); ok && f.secret && !m.unmask[k] {
			m.input.EchoMode = textinput.EchoPassword
		} else {
			m.input.EchoMode = textinput.EchoNormal
		}
		return m, textinput.Blink

	case msg.String() == "u":
		if len(m.keys) > 0 {
			k := m.keys[m.cursor]
			if f, ok := schemaField(k); ok && f.secret {
				m.unmask[k] = !m.unmask[k]
			}
		}

	case msg.String() == "g":
		if len(m.keys) == 0 {
			return m, nil
		}
		k := m.keys[m.cursor]
		f, ok := schemaField(k)
		if !ok || !f.secret {
			return m, nil
		}
		pw, err := trambar.GeneratePassword(32)
		if err != nil {
			m.status, m.statusErr = err.Error(), true
			return m, nil
		}
		m.vars[k] = pw
		delete(m.fieldErr, k)
		m.status, m.statusErr = "generated a new value for "+k, false

	case msg.String() == "v":
		if m.validateAll() {
			m.status, m.statusErr = "all values look good", false
		} else {
			m.status, m.statusErr = fmt.Sprintf("%d value(s) failed validation", len(m.fieldErr)), true
		}

	case msg.String() == "s":
		if m.busy {
			return m, nil
		}
		if !m.validateAll() {
			m.status, m.statusErr = "fix the flagged values before saving", true
			return m, nil
		}
		if len(m.changedKeys()) == 0 {
			m.status, m.statusErr = "nothing to save", false
			return m, nil
		}
		m.busy = true
		m.status, m.statusErr = "saving...", false
		return m, m.write()
	}
	return m, nil
}

func (m *configEditorModel) displayValue(k string) string {
	v := m.vars[k]
	f, ok := schemaField(k)
	if ok && f.secret && !m.unmask[k] {
		return secretStyle.Render(strings.Repeat("*", 8))
	}
	if v == "" {
		return mutedStyle.Render("(empty)")
	}
	return normalStyle.Render(v)
}

func (m *configEditorModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Trambar Settings"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  " + trambar.DotEnvPath(m.cfg.Prefix)))
	b.WriteString("\n")

	lastGroup := ""
	for i, k := range m.keys {
		group := "Other"
		if f, ok := schemaField(k); ok {
			group = f.group
		}
		if group != lastGroup {
			lastGroup = group
			b.WriteString(categoryStyle.Render("  " + group))
			b.WriteString("\n")
		}

		prefix, label := "  ", subtitleStyle.Render(fmt.Sprintf("%-22s", k))
		if i == m.cursor {
			prefix, label = cursorChar, selectedStyle.Render(fmt.Sprintf("%-22s", k))
		}
		dirty := " "
		if m.vars[k] != m.orig[k] {
			dirty = warningStyle.Render("*")
		}

		if m.editing && i == m.cursor {
			b.WriteString(fmt.Sprintf("  %s %s%s %s\n", prefix, label, dirty, m.input.View()))
		} else {
			b.WriteString(fmt.Sprintf("  %s %s%s %s\n", prefix, label, dirty, m.displayValue(k)))
		}

		if errMsg, ok := m.fieldErr[k]; ok {
			b.WriteString("        " + errorStyle.Render(errMsg))
			b.WriteString("\n")
		}
	}

	// Description of the selected field.
	if m.cursor < len(m.keys) {
		if f, ok := schemaField(m.keys[m.cursor]); ok {
			b.WriteString("\n  " + mutedStyle.Render(f.desc))
			b.WriteString("\n")
		}
	}

	if m.status != "" {
		style := successStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString("\n  " + style.Render(m.status))
	}
	if m.confirmQuit {
		b.WriteString("\n  " + warningStyle.Render("unsaved changes; quit anyway? (y/n)"))
	}

	if m.editing {
		b.WriteString(footerHelp(keys.Enter, keys.Back))
	} else {
		b.WriteString(footerHelp(keys.Up, keys.Down, keys.Enter))
		b.WriteString(helpStyle.Render("  u: unmask  g: generate  v: validate  s: save  q: quit"))
	}
	return b.String()
}
