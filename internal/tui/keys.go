package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap collects the bindings shared across the full-screen programs.
// Screens answer to the subset that applies to them and list it in their
// footer via footerHelp.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Back   key.Binding
	Quit   key.Binding
	Help   key.Binding
	Toggle key.Binding
	Search key.Binding
	Tab    key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down/j", "down")),
	Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("left/h", "left")),
	Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("right/l", "right")),
	Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch tab")),
}

// footerHelp renders a one-line key legend from the given bindings.
func footerHelp(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return helpStyle.Render("\n  " + strings.Join(parts, "  "))
}
