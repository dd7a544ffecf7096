package tui

import (
	"strings"

	"github.com/chung-leong/trambar-cli/internal/trambar"
)

// addonDetailView renders one add-on's full description. The enabled and
// running flags come from the manager's cached state; this function never
// touches the deployment itself.
func addonDetailView(name string, enabled, running bool) string {
	info := trambar.AddonCatalog[name]

	var b strings.Builder
	b.WriteString(titleStyle.Render("Add-on: " + name))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("  " + info.Description))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("  Category  "))
	b.WriteString(normalStyle.Render(info.Category))
	b.WriteString("\n")

	b.WriteString(subtitleStyle.Render("  Enabled   "))
	if enabled {
		b.WriteString(successStyle.Render("yes"))
	} else {
		b.WriteString(mutedStyle.Render("no"))
	}
	b.WriteString("\n")

	b.WriteString(subtitleStyle.Render("  Running   "))
	if running {
		b.WriteString(statusRunning.Render("yes"))
	} else {
		b.WriteString(mutedStyle.Render("no"))
	}
	b.WriteString("\n")

	b.WriteString(subtitleStyle.Render("  Ports     "))
	if len(info.Ports) == 0 {
		b.WriteString(mutedStyle.Render("none published"))
	} else {
		b.WriteString(normalStyle.Render(strings.Join(info.Ports, ", ")))
	}
	b.WriteString("\n")

	if deps := trambar.AddonDependencies[name]; len(deps) > 0 {
		b.WriteString(subtitleStyle.Render("  Requires  "))
		b.WriteString(normalStyle.Render(strings.Join(deps, ", ")))
		b.WriteString("\n")
	}

	// Published ports bind to loopback; the nginx vhost is the public face.
	if len(info.Ports) > 0 {
		b.WriteString("\n  " + mutedStyle.Render("Ports bind to 127.0.0.1; reach the service through the proxy"))
		b.WriteString("\n  " + mutedStyle.Render("or an SSH tunnel."))
		b.WriteString("\n")
	}

	b.WriteString(footerHelp(keys.Back))
	return b.String()
}
