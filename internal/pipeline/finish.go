package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/document"
	"github.com/konexlab/konex/internal/lead"
	"github.com/konexlab/konex/internal/recommend"
)

// ErrNotFinished is returned by the submit step when the run is not on its
// result.
var ErrNotFinished = errors.New("run has not reached the result stage")

// Renderer produces the study document.
type Renderer interface {
	Render(ctx context.Context, in document.Input) (*document.Document, error)
}

// Submitter hands a lead over for delivery. It reports whether a send was
// started for run runID.
type Submitter interface {
	Submit(run *configurator.RunState, runID string, bundle recommend.Bundle, doc *document.Document) bool
}

var (
	_ Renderer  = (*document.Generator)(nil)
	_ Submitter = (*lead.Gateway)(nil)
)

// Outcome is filled in by the finish steps.
type Outcome struct {
	Document  *document.Document
	Submitted bool
}

// Finisher builds the steps run when a wizard run reaches its result.
type Finisher struct {
	Renderer  Renderer
	Submitter Submitter

	// AttachDocument renders the study and attaches it to the lead.
	AttachDocument bool

	// Now stamps the document; nil means time.Now.
	Now func() time.Time
}

// Steps returns the finish sequence for run as it is now. The study is
// optional: when it cannot be rendered the lead is sent without it. If run
// is reset before the steps execute, nothing is submitted.
func (f *Finisher) Steps(run *configurator.RunState, bundle recommend.Bundle, out *Outcome) []Step {
	now := f.Now
	if now == nil {
		now = time.Now
	}
	runID := run.ID()
	contact := run.Contact()

	return []Step{
		{
			Name:     "render study",
			Explain:  "Preparing your personalised study document.",
			Optional: true,
			Check: func(context.Context) bool {
				return !f.AttachDocument || f.Renderer == nil || run.Submitted()
			},
			Run: func(ctx context.Context) error {
				doc, err := f.Renderer.Render(ctx, document.Input{
					Bundle:  bundle,
					Contact: contact,
					Date:    now(),
				})
				if err != nil {
					return err
				}
				out.Document = doc
				return nil
			},
		},
		{
			Name:    "submit lead",
			Explain: "Passing your configuration to an advisor.",
			Check: func(context.Context) bool {
				return run.Submitted()
			},
			Run: func(context.Context) error {
				if run.Stage() != configurator.StageResult {
					return ErrNotFinished
				}
				out.Submitted = f.Submitter.Submit(run, runID, bundle, out.Document)
				return nil
			},
		},
	}
}
