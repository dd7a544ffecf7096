package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// wizardHelpView is rendered as a full-screen overlay when '?' is pressed in
// the setup wizard. The other programs (dash, addons, config) keep their key
// legend in the footer instead.
func wizardHelpView() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Setup Wizard Help"))
	b.WriteString("\n\n")

	b.WriteString(categoryStyle.Render("  Keys"))
	b.WriteString("\n")
	for _, binding := range []key.Binding{
		keys.Up, keys.Down, keys.Enter, keys.Back, keys.Toggle, keys.Help, keys.Quit,
	} {
		h := binding.Help()
		b.WriteString(subtitleStyle.Render("    "+h.Key) + "  " + mutedStyle.Render(h.Desc))
		b.WriteString("\n")
	}

	b.WriteString(categoryStyle.Render("  Notes"))
	b.WriteString("\n")
	for _, note := range []string{
		"Nothing touches the system until the installation step runs;",
		"backing out with esc at any point before that is free.",
		"On the review screen, enter on a row jumps back to that question.",
		"Failed system checks show a suggested fix; 'r' re-runs them.",
		"Add-ons left out now can be enabled later: trambar enable <name>,",
		"or interactively with trambar addons.",
	} {
		b.WriteString("    " + mutedStyle.Render(note))
		b.WriteString("\n")
	}

	b.WriteString(categoryStyle.Render("  After installing"))
	b.WriteString("\n")
	for _, line := range []string{
		"trambar dash      live container dashboard",
		"trambar config    edit the generated settings",
		"trambar doctor    re-run the system checks",
	} {
		b.WriteString("    " + mutedStyle.Render(line))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("\n  press any key to close"))
	return b.String()
}
