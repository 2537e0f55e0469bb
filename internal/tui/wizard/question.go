package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/konexlab/konex/internal/catalog"
	"github.com/konexlab/konex/internal/tui/components"
)

// QuestionModel is a single-select list for one catalog step.
type QuestionModel struct {
	styles components.Styles
	banner string
	step   catalog.Step
	total  int
	cursor int
	width  int
	height int
}

// NewQuestionModel creates the screen for step. total is the number of
// question steps.
func NewQuestionModel(styles components.Styles, banner string, step catalog.Step, total int) QuestionModel {
	return QuestionModel{
		styles: styles,
		banner: banner,
		step:   step,
		total:  total,
	}
}

// Step returns the catalog step shown.
func (m QuestionModel) Step() catalog.Step {
	return m.step
}

// Init satisfies tea.Model.
func (m QuestionModel) Init() tea.Cmd {
	return nil
}

// Update handles key events for the question list.
func (m QuestionModel) Update(msg tea.Msg) (QuestionModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.step.Options)
		if n == 0 {
			return m, nil
		}
		switch key := msg.String(); key {
		case "up", "k":
			m.cursor = (m.cursor - 1 + n) % n
		case "down", "j":
			m.cursor = (m.cursor + 1) % n
		case "enter", " ":
			return m, m.choose(m.cursor)
		default:
			// Digits pick an option directly.
			if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
				if i := int(key[0] - '1'); i < n {
					m.cursor = i
					return m, m.choose(i)
				}
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m QuestionModel) choose(i int) tea.Cmd {
	value := m.step.Options[i].Value
	return func() tea.Msg { return OptionChosenMsg{Value: value} }
}

// View renders the question.
func (m QuestionModel) View() string {
	var b strings.Builder

	b.WriteString(m.banner)
	b.WriteString("\n\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("Step %d of %d", m.step.Number, m.total)))
	b.WriteString("\n")
	b.WriteString(m.styles.Title.Render(m.step.Question))
	b.WriteString("\n\n")

	for i, opt := range m.step.Options {
		line := fmt.Sprintf("  %d. %s", i+1, opt.Label)
		if i == m.cursor {
			line = m.styles.SelectedItem.Render(m.styles.Cursor + line[1:])
		} else {
			line = m.styles.UnselectedItem.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("  ↑/↓: move  enter: choose  ctrl+r: start over  ctrl+c: quit"))

	return b.String()
}
