package wizard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/konexlab/konex/internal/recommend"
	"github.com/konexlab/konex/internal/tui/components"
)

type stepState int

const (
	stepPending stepState = iota
	stepRunning
	stepDone
	stepSkipped
	stepFailed
)

type stepStatus struct {
	name  string
	state stepState
}

// ResultModel shows the recommended bundle and the progress of the finish
// steps.
type ResultModel struct {
	styles  components.Styles
	banner  string
	spinner spinner.Model
	details DetailsPanel

	bundle    recommend.Bundle
	firstName string
	steps     []stepStatus
	finished  bool
	download  string
	width     int
}

// NewResultModel creates an empty result view.
func NewResultModel(styles components.Styles, banner string) ResultModel {
	return ResultModel{
		styles:  styles,
		banner:  banner,
		spinner: components.NewSpinner(styles),
		details: NewDetailsPanel(styles),
	}
}

// SetBundle shows b for the contact named firstName and clears any state of
// a previous run.
func (m ResultModel) SetBundle(b recommend.Bundle, firstName string) ResultModel {
	m.bundle = b
	m.firstName = firstName
	m.steps = nil
	m.finished = false
	m.download = ""

	m.details = m.details.SetProducts(b.Products)
	return m
}

// Bundle returns the bundle shown.
func (m ResultModel) Bundle() recommend.Bundle {
	return m.bundle
}

// Finished reports whether the finish steps have run.
func (m ResultModel) Finished() bool {
	return m.finished
}

// Init starts the spinner.
func (m ResultModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m ResultModel) Update(msg tea.Msg) (ResultModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "?" {
			m.details = m.details.Toggle()
		}

	case StepStartMsg:
		if len(m.steps) != msg.Total {
			m.steps = make([]stepStatus, msg.Total)
		}
		if msg.Index < len(m.steps) {
			m.steps[msg.Index] = stepStatus{name: msg.StepName, state: stepRunning}
		}

	case StepDoneMsg:
		if msg.Index < len(m.steps) {
			m.steps[msg.Index].state = stepDone
			if msg.Skipped {
				m.steps[msg.Index].state = stepSkipped
			}
		}

	case StepErrorMsg:
		if msg.Index < len(m.steps) {
			m.steps[msg.Index].state = stepFailed
		}

	case AllDoneMsg:
		m.finished = true

	case DownloadDoneMsg:
		if msg.Err != nil {
			m.download = m.styles.Warning.Render("Could not save the study: " + msg.Err.Error())
		} else {
			m.download = m.styles.Success.Render("Study saved to " + msg.Path)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.details = m.details.SetWidth(min(msg.Width-4, 70))
	}
	return m, nil
}

// SetDownloading marks a download as in progress.
func (m ResultModel) SetDownloading() ResultModel {
	m.download = m.styles.Muted.Render("Preparing your study…")
	return m
}

// View renders the result screen.
func (m ResultModel) View() string {
	var b strings.Builder

	b.WriteString(m.banner)
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render("Your recommended pack"))
	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render(m.bundle.Title))
	b.WriteString("\n\n")

	b.WriteString(m.styles.Subtitle.Render("Equipment"))
	b.WriteString("\n")
	for _, p := range m.bundle.Products {
		b.WriteString(fmt.Sprintf("  %s %s\n", m.styles.StatusDone, p.Title))
	}
	b.WriteString("\n")

	b.WriteString(m.styles.Subtitle.Render("Scenario"))
	b.WriteString("\n")
	b.WriteString(m.scenarioFlow())
	b.WriteString("\n\n")

	if panel := m.details.View(); panel != "" {
		b.WriteString(panel)
		b.WriteString("\n\n")
	}

	// The confirmation does not depend on delivery.
	name := m.firstName
	if name == "" {
		name = "and welcome"
	}
	b.WriteString(m.styles.Success.Render(fmt.Sprintf("Thank you, %s. An advisor will contact you shortly.", name)))
	b.WriteString("\n")

	for _, s := range m.steps {
		if s.name == "" {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", m.stepIcon(s), m.styles.Muted.Render(s.name)))
	}

	if m.download != "" {
		b.WriteString("\n  ")
		b.WriteString(m.download)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("  d: download study  ?: equipment details  r: start over  q: quit"))

	return b.String()
}

func (m ResultModel) scenarioFlow() string {
	if len(m.bundle.Scenarios) == 0 {
		return ""
	}
	parts := make([]string, 0, 2*len(m.bundle.Scenarios))
	for i, sc := range m.bundle.Scenarios {
		if i > 0 {
			parts = append(parts, " "+m.styles.Arrow+" ")
		}
		parts = append(parts, m.phaseStyle(sc.Phase).Render(sc.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m ResultModel) phaseStyle(p recommend.Phase) lipgloss.Style {
	switch p {
	case recommend.PhaseTrigger:
		return m.styles.PhaseTrigger
	case recommend.PhaseAction:
		return m.styles.PhaseAction
	default:
		return m.styles.PhaseOutcome
	}
}

func (m ResultModel) stepIcon(s stepStatus) string {
	switch s.state {
	case stepDone:
		return m.styles.StatusDone
	case stepRunning:
		return m.spinner.View()
	case stepSkipped:
		return m.styles.StatusSkipped
	case stepFailed:
		// Failures are logged; the user sees a neutral marker.
		return m.styles.StatusSkipped
	default:
		return m.styles.StatusPending
	}
}
