package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// The wizard moves through phases; within the form phase it walks an
// ordered list of steps that the summary screen can jump back into.
type wizardPhase int

const (
	phaseWelcome wizardPhase = iota
	phaseForm
	phaseChecks
	phaseInstall
	phaseDone
)

const (
	stepDomain = iota
	stepEmail
	stepHTTPPort
	stepHTTPSPort
	stepPassword
	stepAddons
	stepSummary
	stepCount
)

var stepTitles = [stepCount]string{
	"Domain", "E-mail", "HTTP", "HTTPS", "Password", "Add-ons", "Summary",
}

// Navigation messages emitted by the screens.
type formNextMsg struct{}
type formBackMsg struct{}
type formJumpMsg struct{ step int }
type checksPassedMsg struct{}
type installDoneMsg struct{}

type wizardState struct {
	domain    string
	email     string
	httpPort  string
	httpsPort string
	password  string
	addons    []string
	dev       bool
}

type screenModel interface {
	Init() tea.Cmd
	Update(tea.Msg) (screenModel, tea.Cmd)
	View() string
}

type rootModel struct {
	phase    wizardPhase
	step     int
	state    *wizardState
	form     [stepCount]screenModel
	welcome  screenModel
	checks   screenModel
	install  screenModel
	done     screenModel
	showHelp bool
	quitting bool
}

// StartWizard runs the full-screen install flow.
func StartWizard() error {
	state := &wizardState{}
	m := rootModel{
		state:   state,
		welcome: newWelcomeModel(),
		checks:  newPreflightModel(),
		install: newProgressModel(state),
		done:    newCompleteModel(state),
	}
	m.form[stepDomain] = newFieldModel(state, domainField())
	m.form[stepEmail] = newFieldModel(state, emailField())
	m.form[stepHTTPPort] = newPortInputModel(state, portHTTP)
	m.form[stepHTTPSPort] = newPortInputModel(state, portHTTPS)
	m.form[stepPassword] = newPasswordInputModel(state)
	m.form[stepAddons] = newAddonPickerModel(state)
	m.form[stepSummary] = newSummaryModel(state)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m rootModel) active() screenModel {
	switch m.phase {
	case phaseWelcome:
		return m.welcome
	case phaseForm:
		return m.form[m.step]
	case phaseChecks:
		return m.checks
	case phaseInstall:
		return m.install
	default:
		return m.done
	}
}

func (m *rootModel) setActive(s screenModel) {
	switch m.phase {
	case phaseWelcome:
		m.welcome = s
	case phaseForm:
		m.form[m.step] = s
	case phaseChecks:
		m.checks = s
	case phaseInstall:
		m.install = s
	default:
		m.done = s
	}
}

func (m rootModel) Init() tea.Cmd {
	return m.welcome.Init()
}

func (m rootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		// No help overlay while the installer is writing files.
		if key.Matches(msg, keys.Help) && m.phase != phaseInstall {
			m.showHelp = true
			return m, nil
		}

	case formNextMsg:
		switch m.phase {
		case phaseWelcome:
			m.phase = phaseForm
			m.step = stepDomain
		case phaseForm:
			if m.step == stepSummary {
				m.phase = phaseChecks
			} else {
				m.step++
			}
		}
		return m, m.active().Init()

	case formBackMsg:
		switch m.phase {
		case phaseForm:
			if m.step == stepDomain {
				m.phase = phaseWelcome
			} else {
				m.step--
			}
		case phaseChecks:
			m.phase = phaseForm
			m.step = stepSummary
		}
		return m, m.active().Init()

	case formJumpMsg:
		m.phase = phaseForm
		m.step = msg.step
		return m, m.active().Init()

	case checksPassedMsg:
		m.phase = phaseInstall
		return m, m.install.Init()

	case installDoneMsg:
		m.phase = phaseDone
		return m, m.done.Init()
	}

	s, cmd := m.active().Update(msg)
	m.setActive(s)
	return m, cmd
}

// breadcrumb shows where in the form the user is: finished steps dimmed
// green, the current one highlighted, the rest muted.
func (m rootModel) breadcrumb() string {
	parts := make([]string, stepCount)
	for i, title := range stepTitles {
		switch {
		case i == m.step:
			parts[i] = selectedStyle.Render(title)
		case i < m.step:
			parts[i] = successStyle.Render(title)
		default:
			parts[i] = mutedStyle.Render(title)
		}
	}
	return "  " + strings.Join(parts, mutedStyle.Render(" > ")) + "\n\n"
}

func (m rootModel) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return wizardHelpView()
	}
	content := m.active().View()
	if m.phase == phaseForm {
		content = m.breadcrumb() + content
	}
	return content
}
