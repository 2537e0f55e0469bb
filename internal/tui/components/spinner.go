package components

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// NewSpinner returns a spinner.Model pre-configured with the accent styling.
func NewSpinner(styles Styles) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.GoldColor)
	return s
}

// NewProgressBar returns a progress bar in the brand gradient.
func NewProgressBar(width int) progress.Model {
	p := progress.New(
		progress.WithGradient("#1E3A5F", "#E8C15A"),
		progress.WithoutPercentage(),
	)
	if width > 0 {
		p.Width = width
	}
	return p
}
