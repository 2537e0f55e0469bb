package document

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/konexlab/konex/internal/recommend"
)

const (
	margin       = 20.0
	headerHeight = 40.0
	footerHeight = 20.0
	bannerTop    = 50.0
	bannerHeight = 60.0
	cardHeight   = 20.0
	rowAdvance   = 25.0
	stageHeight  = 22.0
	stageGap     = 10.0
)

type rgb struct{ r, g, b int }

var (
	colorNavy    = rgb{11, 17, 33}
	colorGold    = rgb{224, 163, 43}
	colorPlum    = rgb{43, 18, 76}
	colorPaper   = rgb{250, 250, 252}
	colorCard    = rgb{245, 247, 250}
	colorGrey    = rgb{100, 100, 100}
	colorWhite   = rgb{255, 255, 255}
	colorOutcome = rgb{133, 79, 108}
)

// page wraps the fpdf document with the layout helpers.
type page struct {
	pdf  *fpdf.Fpdf
	tr   func(string) string
	w, h float64
}

func (p *page) fill(c rgb)   { p.pdf.SetFillColor(c.r, c.g, c.b) }
func (p *page) text(c rgb)   { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *page) stroke(c rgb) { p.pdf.SetDrawColor(c.r, c.g, c.b) }

func (p *page) font(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
}

// printableBottom is the lowest y content may reach above the footer.
func (p *page) printableBottom() float64 {
	return p.h - footerHeight - 10
}

// ensure starts a new page when a block of height h would not fit below y,
// returning the y to continue from.
func (p *page) ensure(y, h float64) float64 {
	if y+h <= p.printableBottom() {
		return y
	}
	p.pdf.AddPage()
	return margin
}

func (p *page) paintBackground() {
	p.fill(colorPaper)
	p.pdf.Rect(0, 0, p.w, p.h, "F")
}

func (p *page) footer(line string) {
	p.fill(colorNavy)
	p.pdf.Rect(0, p.h-footerHeight, p.w, footerHeight, "F")
	p.text(colorWhite)
	p.font("", 9)
	p.pdf.SetXY(0, p.h-12)
	p.pdf.CellFormat(p.w, 8, p.tr(line), "", 0, "C", false, 0, "")
}

func (p *page) header(b Brand) {
	p.fill(colorNavy)
	p.pdf.Rect(0, 0, p.w, headerHeight, "F")

	p.text(colorGold)
	p.font("B", 22)
	p.pdf.Text(margin, 20, p.tr(b.Name))

	p.text(colorWhite)
	p.font("", 12)
	p.pdf.Text(margin, 30, p.tr(b.Tagline))
}

func (p *page) banner(img *bannerImage, brandName string) {
	areaW := p.w - 2*margin

	if img == nil {
		p.fill(colorPlum)
		p.pdf.Rect(margin, bannerTop, areaW, bannerHeight, "F")
		p.text(colorGold)
		p.font("B", 16)
		p.pdf.SetXY(margin, bannerTop+bannerHeight/2-5)
		p.pdf.CellFormat(areaW, 10, p.tr(brandName), "", 0, "C", false, 0, "")
		return
	}

	// Fit inside the banner area keeping the aspect ratio.
	w := areaW
	h := w * float64(img.height) / float64(img.width)
	if h > bannerHeight {
		h = bannerHeight
		w = h * float64(img.width) / float64(img.height)
	}
	x := margin + (areaW-w)/2
	p.pdf.ImageOptions(img.name, x, bannerTop, w, h, false, img.opts, 0, "")
}

func (p *page) titleBlock(title, recipient string, date time.Time) float64 {
	y := bannerTop + bannerHeight + 10

	p.text(colorNavy)
	p.font("B", 18)
	p.pdf.Text(margin, y, p.tr(title))

	p.text(colorGrey)
	p.font("", 11)
	p.pdf.Text(margin, y+8, p.tr("Prepared for: "+recipient))
	p.pdf.Text(margin, y+14, "Date: "+date.Format("January 2, 2006"))

	return y + 30
}

func (p *page) equipment(b recommend.Bundle, y float64) float64 {
	p.text(colorNavy)
	p.font("B", 14)
	p.pdf.Text(margin, y, p.tr("Your Recommended Equipment"))

	y += 10
	colWidth := (p.w - 2*margin - stageGap) / 2

	for i, prod := range b.Products {
		if i%2 == 0 {
			if i != 0 {
				y += rowAdvance
			}
			y = p.ensure(y, cardHeight)
		}
		x := margin
		if i%2 == 1 {
			x = margin + colWidth + stageGap
		}

		p.fill(colorCard)
		p.pdf.RoundedRect(x, y, colWidth, cardHeight, 2, "1234", "F")

		p.text(colorNavy)
		p.font("B", 11)
		p.pdf.Text(x+5, y+7, p.tr(prod.Title))

		p.text(colorGrey)
		p.font("", 9)
		lines := p.pdf.SplitText(p.tr(prod.Description), colWidth-10)
		for n, line := range lines {
			if n == 2 {
				break
			}
			p.pdf.Text(x+5, y+13+float64(n)*4, line)
		}
	}

	return y + cardHeight + 15
}

func (p *page) scenarios(flow []recommend.Scenario, y float64) {
	if len(flow) == 0 {
		return
	}

	// Heading and stages move to a new page together.
	y = p.ensure(y, 10+stageHeight)

	p.text(colorNavy)
	p.font("B", 14)
	p.pdf.Text(margin, y, p.tr("Your Smart Scenario"))
	y += 8

	n := float64(len(flow))
	boxW := (p.w - 2*margin - stageGap*(n-1)) / n

	for i, s := range flow {
		x := margin + float64(i)*(boxW+stageGap)

		p.fill(phaseColor(s.Phase))
		p.pdf.RoundedRect(x, y, boxW, stageHeight, 3, "1234", "F")

		p.text(colorWhite)
		p.font("B", 8)
		p.pdf.SetXY(x, y+3)
		p.pdf.CellFormat(boxW, 4, fmt.Sprintf("%d. %s", i+1, s.Phase), "", 0, "C", false, 0, "")

		p.font("B", 10)
		p.pdf.SetXY(x, y+10)
		p.pdf.CellFormat(boxW, 6, p.tr(s.Label), "", 0, "C", false, 0, "")

		if i < len(flow)-1 {
			p.connector(x+boxW, y+stageHeight/2)
		}
	}
}

// connector draws an arrow across the gap to the next stage.
func (p *page) connector(x, midY float64) {
	p.stroke(colorGold)
	p.pdf.SetLineWidth(0.8)
	p.pdf.Line(x+1, midY, x+stageGap-3, midY)

	p.fill(colorGold)
	p.pdf.Polygon([]fpdf.PointType{
		{X: x + stageGap - 3, Y: midY - 1.8},
		{X: x + stageGap - 1, Y: midY},
		{X: x + stageGap - 3, Y: midY + 1.8},
	}, "F")
}

func phaseColor(ph recommend.Phase) rgb {
	switch ph {
	case recommend.PhaseTrigger:
		return colorNavy
	case recommend.PhaseAction:
		return colorGold
	default:
		return colorOutcome
	}
}
