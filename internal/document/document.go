// Package document renders the downloadable bundle summary as a PDF.
//
// The layout is a single A4 flow: brand header, housing banner, bundle title
// and recipient, a two-column equipment grid, the scenario flow and a footer
// on every page. Image loading never aborts rendering; a failed fetch falls
// back to a solid banner.
package document

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/recommend"
)

// Brand is the company identity printed on every document.
type Brand struct {
	Name    string
	Tagline string
	Footer  string
}

// Input is everything a document is rendered from.
type Input struct {
	Bundle  recommend.Bundle
	Contact configurator.Contact
	// Date is printed as the generation date; zero means now.
	Date time.Time
}

// Document is a rendered PDF.
type Document struct {
	Name  string
	Data  []byte
	Pages int
}

// Save writes the document into dir and returns its path.
func (d *Document) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	path := filepath.Join(dir, d.Name)
	if err := os.WriteFile(path, d.Data, 0644); err != nil {
		return "", fmt.Errorf("writing document: %w", err)
	}
	return path, nil
}

// Base64 encodes the document for embedding in a lead payload.
func (d *Document) Base64() string {
	return base64.StdEncoding.EncodeToString(d.Data)
}

// Generator renders documents. It is safe for concurrent use; every Render
// builds its own PDF.
type Generator struct {
	brand        Brand
	fileName     string
	images       ImageLoader
	imageTimeout time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

// NewGenerator creates a Generator. imageTimeout bounds the banner fetch;
// zero means 5 seconds.
func NewGenerator(brand Brand, fileName string, images ImageLoader, imageTimeout time.Duration, logger *slog.Logger) *Generator {
	if imageTimeout <= 0 {
		imageTimeout = 5 * time.Second
	}
	if fileName == "" {
		fileName = "study.pdf"
	}
	return &Generator{
		brand:        brand,
		fileName:     fileName,
		images:       images,
		imageTimeout: imageTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// Render produces the PDF for in.
func (g *Generator) Render(ctx context.Context, in Input) (*Document, error) {
	date := in.Date
	if date.IsZero() {
		date = g.now()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(in.Bundle.Title, true)
	pdf.SetAuthor(g.brand.Name, true)

	p := &page{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	p.w, p.h = pdf.GetPageSize()

	pdf.SetHeaderFunc(p.paintBackground)
	pdf.SetFooterFunc(func() { p.footer(g.brand.Footer) })
	pdf.AddPage()

	p.header(g.brand)
	p.banner(g.loadBanner(ctx, pdf, in.Bundle.Background), g.brand.Name)
	y := p.titleBlock(in.Bundle.Title, in.Contact.FullName(), date)
	y = p.equipment(in.Bundle, y)
	p.scenarios(in.Bundle.Scenarios, y)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering document: %w", err)
	}

	return &Document{Name: g.fileName, Data: buf.Bytes(), Pages: pdf.PageCount()}, nil
}

// bannerImage is a registered image ready to place, or nil for the fallback.
type bannerImage struct {
	name          string
	opts          fpdf.ImageOptions
	width, height int
}

func (g *Generator) loadBanner(ctx context.Context, pdf *fpdf.Fpdf, ref string) *bannerImage {
	if ref == "" || g.images == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, g.imageTimeout)
	defer cancel()

	data, err := g.images.Load(ctx, ref)
	if err != nil {
		g.logger.Warn("banner image unavailable, using fallback",
			slog.String("image", ref),
			slog.String("error", err.Error()),
		)
		return nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		g.logger.Warn("banner image undecodable, using fallback", slog.String("image", ref))
		return nil
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	if format == "jpeg" {
		opts.ImageType = "JPG"
	}

	pdf.RegisterImageOptionsReader(ref, opts, bytes.NewReader(data))
	if pdf.Err() {
		g.logger.Warn("banner image rejected, using fallback",
			slog.String("image", ref),
			slog.String("error", pdf.Error().Error()),
		)
		pdf.ClearError()
		return nil
	}

	return &bannerImage{name: ref, opts: opts, width: cfg.Width, height: cfg.Height}
}
