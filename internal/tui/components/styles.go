package components

import "github.com/charmbracelet/lipgloss"

// Styles holds all shared Lipgloss styles used across TUI screens.
type Styles struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Body           lipgloss.Style
	Muted          lipgloss.Style
	Success        lipgloss.Style
	Error          lipgloss.Style
	Warning        lipgloss.Style
	Panel          lipgloss.Style
	Card           lipgloss.Style
	SelectedItem   lipgloss.Style
	UnselectedItem lipgloss.Style
	FocusedInput   lipgloss.Style
	BlurredInput   lipgloss.Style
	Cursor         string
	Arrow          string
	StatusDone     string
	StatusRunning  string
	StatusPending  string
	StatusSkipped  string
	StatusFailed   string
	Footer         lipgloss.Style
	AccentColor    lipgloss.AdaptiveColor
	GoldColor      lipgloss.AdaptiveColor
	PhaseTrigger   lipgloss.Style
	PhaseAction    lipgloss.Style
	PhaseOutcome   lipgloss.Style
}

// DefaultStyles returns a Styles populated with the konex palette: navy
// accents with gold highlights. Uses AdaptiveColor to work in both light and
// dark terminals.
func DefaultStyles() Styles {
	accent := lipgloss.AdaptiveColor{Light: "#1E3A5F", Dark: "#7FA7D9"}
	gold := lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#E8C15A"}
	plum := lipgloss.AdaptiveColor{Light: "#6B3A5B", Dark: "#C58DB3"}
	muted := lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	success := lipgloss.AdaptiveColor{Light: "#16A34A", Dark: "#4ADE80"}
	errColor := lipgloss.AdaptiveColor{Light: "#DC2626", Dark: "#F87171"}
	warn := lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

	phase := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c).
			Foreground(c).
			Padding(0, 1)
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(gold),

		Body: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(muted),

		Success: lipgloss.NewStyle().
			Foreground(success),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(errColor),

		Warning: lipgloss.NewStyle().
			Foreground(warn),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 1),

		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(gold).
			Padding(0, 1),

		SelectedItem: lipgloss.NewStyle().
			Foreground(gold).
			Bold(true),

		UnselectedItem: lipgloss.NewStyle().
			Foreground(muted),

		FocusedInput: lipgloss.NewStyle().
			Foreground(gold),

		BlurredInput: lipgloss.NewStyle().
			Foreground(muted),

		Cursor:        ">",
		Arrow:         "→",
		StatusDone:    "✓",
		StatusRunning: "●",
		StatusPending: "○",
		StatusSkipped: "~",
		StatusFailed:  "✗",

		Footer: lipgloss.NewStyle().
			Foreground(muted),

		AccentColor: accent,
		GoldColor:   gold,

		PhaseTrigger: phase(plum),
		PhaseAction:  phase(accent),
		PhaseOutcome: phase(gold),
	}
}
