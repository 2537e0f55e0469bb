package wizard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/tui/components"
)

// ProcessingModel shows the timed analysis stage between contact and result.
type ProcessingModel struct {
	styles  components.Styles
	banner  string
	spinner spinner.Model
	bar     progress.Model

	stage   configurator.Processing
	elapsed int // ticks received for the current epoch
	current configurator.Progress
	width   int
}

// NewProcessingModel creates the processing view.
func NewProcessingModel(styles components.Styles, banner string, stage configurator.Processing) ProcessingModel {
	return ProcessingModel{
		styles:  styles,
		banner:  banner,
		spinner: components.NewSpinner(styles),
		bar:     components.NewProgressBar(40),
		stage:   stage,
		current: stage.At(0),
	}
}

// Init starts the spinner.
func (m ProcessingModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Advance moves the animation forward by one tick and returns the new
// progress.
func (m ProcessingModel) Advance() (ProcessingModel, configurator.Progress) {
	m.elapsed++
	m.current = m.stage.At(m.stage.Interval() * time.Duration(m.elapsed))
	return m, m.current
}

// Progress returns the last computed progress.
func (m ProcessingModel) Progress() configurator.Progress {
	return m.current
}

// Update handles messages.
func (m ProcessingModel) Update(msg tea.Msg) (ProcessingModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(min(msg.Width-8, 60), 10)
	}
	return m, nil
}

// View renders the processing screen.
func (m ProcessingModel) View() string {
	var b strings.Builder

	b.WriteString(m.banner)
	b.WriteString("\n\n")
	b.WriteString(m.styles.Title.Render("Designing your smart home"))
	b.WriteString("\n\n")

	b.WriteString("  ")
	b.WriteString(m.bar.ViewAs(m.current.Percent))
	b.WriteString(fmt.Sprintf("  %3d%%\n\n", int(m.current.Percent*100)))

	if m.current.Status != "" {
		b.WriteString(fmt.Sprintf("  %s %s\n", m.spinner.View(), m.styles.Body.Render(m.current.Status)))
	}

	return b.String()
}
