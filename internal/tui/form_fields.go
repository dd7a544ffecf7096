package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// fieldSpec describes one free-text wizard question: its copy, how to clean
// up what was typed, and how the answer is validated and stored.
type fieldSpec struct {
	title       string
	desc        string
	placeholder string
	hint        string
	charLimit   int
	normalize   func(string) string
	validate    func(string) error
	load        func(*wizardState) string
	store       func(*wizardState, string)
}

func domainField() fieldSpec {
	return fieldSpec{
		title:       "Server Domain",
		desc:        "The name browsers will use to reach this Trambar server.",
		placeholder: "trambar.example.com",
		hint:        "Use localhost for a trial install without DNS.",
		charLimit:   253,
		normalize:   normalizeHostname,
		validate:    validateHostname,
		load:        func(s *wizardState) string { return s.domain },
		store:       func(s *wizardState, v string) { s.domain = v },
	}
}

func emailField() fieldSpec {
	return fieldSpec{
		title:       "Administrator E-mail",
		desc:        "Let's Encrypt sends certificate expiry notices to this address.",
		placeholder: "admin@example.com",
		charLimit:   254,
		normalize:   strings.TrimSpace,
		validate:    validateEmail,
		load:        func(s *wizardState) string { return s.email },
		store:       func(s *wizardState, v string) { s.email = v },
	}
}

type fieldModel struct {
	state  *wizardState
	spec   fieldSpec
	input  textinput.Model
	errMsg string
}

func newFieldModel(state *wizardState, spec fieldSpec) *fieldModel {
	ti := textinput.New()
	ti.Placeholder = spec.placeholder
	ti.CharLimit = spec.charLimit
	ti.Width = 40
	return &fieldModel{state: state, spec: spec, input: ti}
}

func (m *fieldModel) Init() tea.Cmd {
	m.errMsg = ""
	m.input.SetValue(m.spec.load(m.state))
	m.input.Focus()
	return textinput.Blink
}

func (m *fieldModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Back):
			return m, func() tea.Msg { return formBackMsg{} }
		case key.Matches(msg, keys.Enter):
			val := m.spec.normalize(m.input.Value())
			if err := m.spec.validate(val); err != nil {
				m.errMsg = err.Error()
				return m, nil
			}
			m.errMsg = ""
			m.spec.store(m.state, val)
			return m, func() tea.Msg { return formNextMsg{} }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *fieldModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.spec.title))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(m.spec.desc))
	b.WriteString("\n\n")
	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	switch {
	case m.errMsg != "":
		b.WriteString("\n  " + errorStyle.Render(m.errMsg))
	case m.spec.hint != "":
		b.WriteString("\n  " + mutedStyle.Render(m.spec.hint))
	}

	b.WriteString(footerHelp(keys.Enter, keys.Back, keys.Help))
	return b.String()
}

// normalizeHostname lowercases, trims whitespace, and drops a trailing dot.
func normalizeHostname(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSuffix(s, ".")
}

// validateHostname enforces the names the generated nginx confs and the
// certificate registry can work with: lowercase DNS labels, and either a
// fully qualified name or the literal localhost for trial installs.
func validateHostname(s string) error {
	if s == "" {
		return fmt.Errorf("a domain is required")
	}
	if s == "localhost" {
		return nil
	}
	if len(s) > 253 {
		return fmt.Errorf("name is longer than 253 characters")
	}
	labels := strings.Split(s, ".")
	if len(labels) < 2 {
		return fmt.Errorf("use a fully qualified name such as trambar.example.com, or localhost")
	}
	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("empty label: check for doubled or leading dots")
		}
		if len(label) > 63 {
			return fmt.Errorf("label %q is longer than 63 characters", label)
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return fmt.Errorf("label %q may not start or end with a hyphen", label)
		}
		for _, r := range label {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
				return fmt.Errorf("invalid character %q in domain", r)
			}
		}
	}
	// An all-numeric final label would make the name look like an IP.
	tld := labels[len(labels)-1]
	if strings.IndexFunc(tld, func(r rune) bool { return r < '0' || r > '9' }) == -1 {
		return fmt.Errorf("the final label may not be numeric; IP addresses cannot get certificates")
	}
	return nil
}

func validateEmail(s string) error {
	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("enter an address of the form you@example.com")
	}
	if strings.ContainsAny(s[:at], " \t") {
		return fmt.Errorf("the address may not contain spaces")
	}
	if err := validateHostname(normalizeHostname(s[at+1:])); err != nil {
		return fmt.Errorf("mail domain: %v", err)
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("ports are numbers between 1 and 65535")
	}
	return nil
}
