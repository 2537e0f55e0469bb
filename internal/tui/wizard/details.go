package wizard

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/konexlab/konex/internal/catalog"
	"github.com/konexlab/konex/internal/tui/components"
)

const noDescription = "No description available."

// DetailsPanel lists the products of a bundle with their descriptions.
// Hidden until toggled.
type DetailsPanel struct {
	styles   components.Styles
	products []catalog.Product
	visible  bool
	width    int
}

func NewDetailsPanel(styles components.Styles) DetailsPanel {
	return DetailsPanel{styles: styles, width: 60}
}

func (p DetailsPanel) SetProducts(products []catalog.Product) DetailsPanel {
	p.products = products
	return p
}

func (p DetailsPanel) Toggle() DetailsPanel {
	p.visible = !p.visible
	return p
}

func (p DetailsPanel) Visible() bool { return p.visible }

func (p DetailsPanel) SetWidth(w int) DetailsPanel {
	if w > 0 {
		p.width = w
	}
	return p
}

func (p DetailsPanel) View() string {
	if !p.visible || len(p.products) == 0 {
		return ""
	}

	// Border + padding take 4 columns; descriptions are indented by 2.
	inner := max(p.width-6, 20)

	rows := []string{p.styles.Subtitle.Render("Equipment details")}
	for _, prod := range p.products {
		desc := prod.Description
		if desc == "" {
			desc = noDescription
		}
		rows = append(rows,
			"",
			p.styles.Body.Bold(true).Render(prod.Icon+" "+prod.Title),
			indent(wordWrap(desc, inner), "  "),
		)
	}

	return p.styles.Panel.
		Width(p.width).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

// wordWrap breaks text into lines of at most width columns. Words longer
// than width stay on their own line.
func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if width <= 0 || len(words) == 0 {
		return strings.Join(words, " ")
	}

	var b strings.Builder
	col := 0
	for _, w := range words {
		n := lipgloss.Width(w)
		switch {
		case col == 0:
		case col+1+n > width:
			b.WriteByte('\n')
			col = 0
		default:
			b.WriteByte(' ')
			col++
		}
		b.WriteString(w)
		col += n
	}
	return b.String()
}
