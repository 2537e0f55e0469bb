package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderBanner draws the brand header shown above every screen.
func RenderBanner(s Styles, name, tagline string) string {
	if name == "" {
		name = "konex"
	}
	title := s.Title.Render(strings.ToUpper(name))
	rule := s.Subtitle.Render(strings.Repeat("─", max(lipgloss.Width(title), len(tagline))))

	lines := []string{title, rule}
	if tagline != "" {
		lines = append(lines, s.Muted.Render(tagline))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
