package components

import (
	"strings"
	"testing"
)

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	if s.Cursor == "" {
		t.Error("Cursor is empty")
	}
	if s.Arrow == "" {
		t.Error("Arrow is empty")
	}
	if s.StatusDone == "" {
		t.Error("StatusDone is empty")
	}
	if s.StatusPending == "" {
		t.Error("StatusPending is empty")
	}
	if s.StatusFailed == "" {
		t.Error("StatusFailed is empty")
	}
}

func TestRenderBanner(t *testing.T) {
	s := DefaultStyles()
	out := RenderBanner(s, "Konexlab", "The Home of Tomorrow")
	if !strings.Contains(out, "KONEXLAB") {
		t.Errorf("banner should contain the brand name, got %q", out)
	}
	if !strings.Contains(out, "The Home of Tomorrow") {
		t.Errorf("banner should contain the tagline, got %q", out)
	}
}

func TestRenderBanner_DefaultName(t *testing.T) {
	out := RenderBanner(DefaultStyles(), "", "")
	if !strings.Contains(out, "KONEX") {
		t.Errorf("banner should fall back to the product name, got %q", out)
	}
}

func TestNewSpinner(t *testing.T) {
	s := DefaultStyles()
	sp := NewSpinner(s)
	if sp.View() == "" {
		t.Error("spinner View() is empty")
	}
}

func TestNewProgressBar(t *testing.T) {
	p := NewProgressBar(30)
	if p.Width != 30 {
		t.Errorf("width = %d, want 30", p.Width)
	}
	if p.ViewAs(0.5) == "" {
		t.Error("progress ViewAs is empty")
	}
}
