package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chung-leong/trambar-cli/internal/trambar"
)

// addonOrder returns every catalog name, grouped by category and sorted
// within each group. Views render a category header whenever the category of
// consecutive names changes.
func addonOrder() []string {
	var names []string
	for _, cat := range []string{"Integrations", "Operations"} {
		var group []string
		for name, info := range trambar.AddonCatalog {
			if info.Category == cat {
				group = append(group, name)
			}
		}
		sort.Strings(group)
		names = append(names, group...)
	}
	return names
}

// enableWithDeps turns on an add-on plus everything it requires, returning a
// note naming the dependencies that were pulled in.
func enableWithDeps(set map[string]bool, name string) string {
	set[name] = true
	var pulled []string
	for _, dep := range trambar.AddonDependencies[name] {
		if !set[dep] {
			set[dep] = true
			pulled = append(pulled, dep)
		}
	}
	if len(pulled) == 0 {
		return ""
	}
	return fmt.Sprintf("also enabled %s (required by %s)", strings.Join(pulled, ", "), name)
}

// addonPickerModel is the wizard's add-on step. Unlike the manager it has no
// deployment to talk to; it only collects names into the wizard state.
type addonPickerModel struct {
	state  *wizardState
	names  []string
	cursor int
	chosen map[string]bool
	note   string
}

func newAddonPickerModel(state *wizardState) *addonPickerModel {
	return &addonPickerModel{
		state:  state,
		names:  addonOrder(),
		chosen: map[string]bool{},
	}
}

func (m *addonPickerModel) Init() tea.Cmd {
	m.chosen = map[string]bool{}
	for _, a := range m.state.addons {
		m.chosen[a] = true
	}
	m.note = ""
	return nil
}

func (m *addonPickerModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Back):
		return m, func() tea.Msg { return formBackMsg{} }

	case key.Matches(keyMsg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, keys.Down):
		if m.cursor < len(m.names)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, keys.Toggle):
		name := m.names[m.cursor]
		m.note = ""
		if m.chosen[name] {
			delete(m.chosen, name)
		} else {
			m.note = enableWithDeps(m.chosen, name)
		}

	case key.Matches(keyMsg, keys.Enter):
		m.state.addons = nil
		for name := range m.chosen {
			m.state.addons = append(m.state.addons, name)
		}
		sort.Strings(m.state.addons)
		return m, func() tea.Msg { return formNextMsg{} }
	}
	return m, nil
}

func (m *addonPickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Optional Add-ons"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Extra services alongside the core stack. Any of these can also be"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("enabled later with 'trambar enable <name>'."))
	b.WriteString("\n")

	lastCat := ""
	for i, name := range m.names {
		info := trambar.AddonCatalog[name]
		if info.Category != lastCat {
			lastCat = info.Category
			b.WriteString(categoryStyle.Render("  " + info.Category))
			b.WriteString("\n")
		}

		check := checkOff
		if m.chosen[name] {
			check = checkOn
		}
		prefix, label := "  ", normalStyle.Render(name)
		if i == m.cursor {
			prefix, label = cursorChar, selectedStyle.Render(name)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s  %s\n",
			prefix, check, label, mutedStyle.Render(info.Description)))

		// Port details only for the row under the cursor.
		if i == m.cursor && len(info.Ports) > 0 {
			b.WriteString("          " + mutedStyle.Render("publishes "+strings.Join(info.Ports, ", ")))
			b.WriteString("\n")
		}
	}

	if m.note != "" {
		b.WriteString("\n  " + warningStyle.Render(m.note))
	}

	b.WriteString(footerHelp(keys.Toggle, keys.Up, keys.Down, keys.Enter, keys.Back))
	return b.String()
}
