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

type addonsLoadedMsg struct {
	enabled []string
	err     error
}

type addonRunningMsg map[string]bool

type addonSavedMsg struct {
	applied bool
	err     error
}

// addonManagerModel edits the enabled add-on set of an existing
// installation. Toggles are staged in memory; nothing is written until 's'
// (save) or 'a' (save and apply to the running deployment).
type addonManagerModel struct {
	rt  trambar.Runtime
	cfg trambar.Config

	names   []string
	visible []int
	cursor  int
	enabled map[string]bool
	saved   map[string]bool
	running map[string]bool

	search    textinput.Model
	searching bool
	detail    string

	note        string
	status      string
	statusErr   bool
	busy        bool
	confirmQuit bool
}

func newAddonManagerModel(rt trambar.Runtime, cfg trambar.Config) *addonManagerModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.CharLimit = 32
	ti.Width = 24

	m := &addonManagerModel{
		rt:      rt,
		cfg:     cfg,
		names:   addonOrder(),
		enabled: map[string]bool{},
		saved:   map[string]bool{},
		running: map[string]bool{},
		search:  ti,
	}
	m.refilter()
	return m
}

func (m *addonManagerModel) Init() tea.Cmd {
	return tea.Batch(m.load(), m.fetchRunning())
}

func (m *addonManagerModel) load() tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		enabled, err := trambar.LoadAddons(cfg)
		return addonsLoadedMsg{enabled: enabled, err: err}
	}
}

// fetchRunning asks compose which services are up. It runs off the Update
// loop so a slow docker daemon never freezes the list.
func (m *addonManagerModel) fetchRunning() tea.Cmd {
	rt, cfg := m.rt, m.cfg
	return func() tea.Msg {
		args := trambar.ComposeBaseArgs(rt, cfg)
		args = append(args, "ps", "--services", "--status", "running")
		out, err := trambar.RunCmdCapture(rt.Compose[0], args...)
		if err != nil {
			return addonRunningMsg{}
		}
		running := addonRunningMsg{}
		for _, line := range strings.Split(out, "\n") {
			if s := strings.TrimSpace(line); s != "" {
				running[s] = true
			}
		}
		return running
	}
}

func (m *addonManagerModel) save(apply bool) tea.Cmd {
	rt, cfg := m.rt, m.cfg
	addons := m.enabledList()
	return func() tea.Msg {
		if err := trambar.WriteAddons(cfg, addons); err != nil {
			return addonSavedMsg{err: err}
		}
		if err := trambar.ApplyConfig(cfg, addons); err != nil {
			return addonSavedMsg{err: err}
		}
		if apply {
			if err := trambar.Up(rt, cfg); err != nil {
				return addonSavedMsg{applied: true, err: err}
			}
		}
		return addonSavedMsg{applied: apply}
	}
}

func (m *addonManagerModel) enabledList() []string {
	out := make([]string, 0, len(m.enabled))
	for name, on := range m.enabled {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (m *addonManagerModel) dirty() bool {
	for _, name := range m.names {
		if m.enabled[name] != m.saved[name] {
			return true
		}
	}
	return false
}

func (m *addonManagerModel) refilter() {
	m.visible = m.visible[:0]
	needle := strings.ToLower(strings.TrimSpace(m.search.Value()))
	for i, name := range m.names {
		info := trambar.AddonCatalog[name]
		if needle == "" ||
			strings.Contains(name, needle) ||
			strings.Contains(strings.ToLower(info.Description), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

func (m *addonManagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case addonsLoadedMsg:
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		m.enabled = map[string]bool{}
		m.saved = map[string]bool{}
		for _, name := range msg.enabled {
			m.enabled[name] = true
			m.saved[name] = true
		}
		return m, nil

	case addonRunningMsg:
		m.running = msg
		return m, nil

	case addonSavedMsg:
		m.busy = false
		if msg.err != nil {
			m.status, m.statusErr = msg.err.Error(), true
			return m, nil
		}
		m.saved = map[string]bool{}
		for name, on := range m.enabled {
			if on {
				m.saved[name] = true
			}
		}
		m.statusErr = false
		if msg.applied {
			m.status = "saved and applied"
			return m, m.fetchRunning()
		}
		m.status = "saved; run 'trambar start' (or press a) to apply"
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *addonManagerModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}

	if m.confirmQuit {
		switch msg.String() {
		case "y":
			return m, tea.Quit
		default:
			m.confirmQuit = false
		}
		return m, nil
	}

	if m.searching {
		switch {
		case key.Matches(msg, keys.Back):
			m.searching = false
			m.search.SetValue("")
			m.search.Blur()
			m.refilter()
		case key.Matches(msg, keys.Enter):
			m.searching = false
			m.search.Blur()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.refilter()
			return m, cmd
		}
		return m, nil
	}

	if m.detail != "" {
		if key.Matches(msg, keys.Back) || msg.String() == "q" {
			m.detail = ""
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Back), msg.String() == "q":
		if m.dirty() {
			m.confirmQuit = true
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, keys.Toggle):
		if m.busy || len(m.visible) == 0 {
			return m, nil
		}
		name := m.names[m.visible[m.cursor]]
		m.note, m.status = "", ""
		if m.enabled[name] {
			delete(m.enabled, name)
		} else {
			m.note = enableWithDeps(m.enabled, name)
		}

	case key.Matches(msg, keys.Enter), msg.String() == "d":
		if len(m.visible) > 0 {
			m.detail = m.names[m.visible[m.cursor]]
		}

	case msg.String() == "s":
		if !m.busy {
			m.busy = true
			m.status, m.statusErr = "saving...", false
			return m, m.save(false)
		}

	case msg.String() == "a":
		if !m.busy {
			m.busy = true
			m.status, m.statusErr = "saving and applying...", false
			return m, m.save(true)
		}
	}
	return m, nil
}

func (m *addonManagerModel) View() string {
	if m.detail != "" {
		return addonDetailView(m.detail, m.enabled[m.detail], m.running[m.detail])
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Trambar Add-ons"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  " + m.cfg.Domain + "  (" + m.cfg.Prefix + ")"))
	b.WriteString("\n")

	if m.searching || m.search.Value() != "" {
		b.WriteString("  / " + m.search.View())
		b.WriteString("\n")
	}

	lastCat := ""
	for row, idx := range m.visible {
		name := m.names[idx]
		info := trambar.AddonCatalog[name]
		if info.Category != lastCat {
			lastCat = info.Category
			b.WriteString(categoryStyle.Render("  " + info.Category))
			b.WriteString("\n")
		}

		check := checkOff
		if m.enabled[name] {
			check = checkOn
		}
		state := mutedStyle.Render("stopped")
		if m.running[name] {
			state = statusRunning.Render("running")
		}
		prefix, label := "  ", normalStyle.Render(fmt.Sprintf("%-12s", name))
		if row == m.cursor {
			prefix, label = cursorChar, selectedStyle.Render(fmt.Sprintf("%-12s", name))
		}
		b.WriteString(fmt.Sprintf("  %s %s %s %s  %s\n",
			prefix, check, label, state, mutedStyle.Render(info.Description)))
	}
	if len(m.visible) == 0 {
		b.WriteString(mutedStyle.Render("  no add-ons match the filter"))
		b.WriteString("\n")
	}

	if m.note != "" {
		b.WriteString("\n  " + warningStyle.Render(m.note))
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

	b.WriteString(footerHelp(keys.Toggle, keys.Up, keys.Down, keys.Enter, keys.Search))
	b.WriteString(helpStyle.Render("  s: save  a: save+apply  q: quit"))
	return b.String()
}
