// Package lead sends the captured configuration and contact to the CRM
// integration endpoint. Submission is fire-and-forget: failures are logged
// and never reach the wizard.
package lead

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/document"
	"github.com/konexlab/konex/internal/recommend"
)

const defaultTimeout = 10 * time.Second

// Gateway submits at most one lead per run.
type Gateway struct {
	sender  Sender
	timeout time.Duration
	logger  *slog.Logger
	wg      sync.WaitGroup
}

// NewGateway creates a Gateway. timeout bounds each send; zero means 10s.
func NewGateway(sender Sender, timeout time.Duration, logger *slog.Logger) *Gateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Gateway{sender: sender, timeout: timeout, logger: logger}
}

// Submit enqueues the lead of run unless run was reset since runID was
// observed or a lead was already claimed for it. It returns whether a send
// was started; the outcome of the send is only logged.
func (g *Gateway) Submit(run *configurator.RunState, runID string, bundle recommend.Bundle, doc *document.Document) bool {
	snap, ok := run.Claim(runID)
	if !ok {
		g.logger.Debug("lead not submitted: run already claimed or superseded", slog.String("run_id", runID))
		return false
	}

	payload := NewPayload(snap.Answers, bundle.Title, snap.Contact, doc)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		g.send(snap.ID, payload)
	}()
	return true
}

func (g *Gateway) send(runID string, p Payload) {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	start := time.Now()
	err := g.sender.Send(ctx, runID, p)
	elapsed := time.Since(start)

	if err != nil {
		g.logger.Error("lead submission failed",
			slog.String("run_id", runID),
			slog.String("pack", p.PackTitle),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		)
		return
	}

	g.logger.Info("lead submitted",
		slog.String("run_id", runID),
		slog.String("pack", p.PackTitle),
		slog.Bool("with_document", p.PDFContent != ""),
		slog.Duration("elapsed", elapsed),
	)
}

// Wait blocks until in-flight sends finish or ctx is done.
func (g *Gateway) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
