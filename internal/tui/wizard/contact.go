package wizard

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/tui/components"
)

var contactFields = []struct {
	field       configurator.Field
	label       string
	placeholder string
}{
	{configurator.FieldFirstName, "First name", "Jane"},
	{configurator.FieldLastName, "Last name", "Doe"},
	{configurator.FieldEmail, "Email", "jane@example.com"},
	{configurator.FieldPhone, "Phone (optional)", "+33 6 00 00 00 00"},
}

// ContactModel is the contact form shown after the last question.
type ContactModel struct {
	styles components.Styles
	banner string
	inputs []textinput.Model
	focus  int
}

// NewContactModel creates an empty form with the first field focused.
func NewContactModel(styles components.Styles, banner string) ContactModel {
	m := ContactModel{styles: styles, banner: banner}
	for _, f := range contactFields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.CharLimit = 120
		in.Prompt = ""
		m.inputs = append(m.inputs, in)
	}
	m.inputs[0].Focus()
	return m
}

// Contact returns the current form values.
func (m ContactModel) Contact() configurator.Contact {
	var c configurator.Contact
	for i, f := range contactFields {
		c.Set(f.field, m.inputs[i].Value())
	}
	return c
}

// Focused returns the field that has focus.
func (m ContactModel) Focused() configurator.Field {
	return contactFields[m.focus].field
}

// FocusField moves focus to f.
func (m ContactModel) FocusField(f configurator.Field) ContactModel {
	for i, cf := range contactFields {
		if cf.field == f {
			return m.setFocus(i)
		}
	}
	return m
}

func (m ContactModel) setFocus(i int) ContactModel {
	n := len(m.inputs)
	i = (i + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[i].Focus()
	return m
}

// Init starts the cursor blink.
func (m ContactModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles navigation and typing.
func (m ContactModel) Update(msg tea.Msg) (ContactModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			return m.setFocus(m.focus + 1), nil
		case "shift+tab", "up":
			return m.setFocus(m.focus - 1), nil
		case "enter":
			if m.focus < len(m.inputs)-1 {
				return m.setFocus(m.focus + 1), nil
			}
			c := m.Contact()
			return m, func() tea.Msg { return ContactSubmitMsg{Contact: c} }
		case "ctrl+s":
			c := m.Contact()
			return m, func() tea.Msg { return ContactSubmitMsg{Contact: c} }
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// View renders the form.
func (m ContactModel) View() string {
	var b strings.Builder

	b.WriteString(m.banner)
	b.WriteString("\n\n")
	b.WriteString(m.styles.Title.Render("Where should we send your study?"))
	b.WriteString("\n\n")

	for i, f := range contactFields {
		label := m.styles.BlurredInput.Render("  " + f.label)
		if i == m.focus {
			label = m.styles.FocusedInput.Render(m.styles.Cursor + " " + f.label)
		}
		b.WriteString(label)
		b.WriteString("\n    ")
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("  tab: next field  enter: continue  ctrl+r: start over"))

	return b.String()
}
