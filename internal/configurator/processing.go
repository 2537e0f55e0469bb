package configurator

import (
	"context"
	"time"
)

const defaultTick = 100 * time.Millisecond

// Processing configures the timed transitional stage between contact and
// result.
type Processing struct {
	Enabled  bool
	Duration time.Duration
	Tick     time.Duration
	Statuses []string
}

// Progress is a snapshot of the processing stage.
type Progress struct {
	Percent float64
	Status  string
	Done    bool
}

// Interval returns the refresh period, falling back to 100ms.
func (p Processing) Interval() time.Duration {
	if p.Tick <= 0 {
		return defaultTick
	}
	return p.Tick
}

// At computes progress after elapsed time. Status text rotates evenly over
// the duration.
func (p Processing) At(elapsed time.Duration) Progress {
	if p.Duration <= 0 || elapsed >= p.Duration {
		return Progress{Percent: 1, Status: p.status(len(p.Statuses) - 1), Done: true}
	}
	if elapsed < 0 {
		elapsed = 0
	}

	pct := float64(elapsed) / float64(p.Duration)
	idx := int(pct * float64(len(p.Statuses)))
	return Progress{Percent: pct, Status: p.status(idx)}
}

func (p Processing) status(i int) string {
	if len(p.Statuses) == 0 {
		return ""
	}
	if i < 0 {
		i = 0
	}
	if i >= len(p.Statuses) {
		i = len(p.Statuses) - 1
	}
	return p.Statuses[i]
}

// RunProcessing drives the stage on a ticker, reporting progress on each
// tick until done. The ticker is stopped when ctx is cancelled, so a run that
// is torn down leaves no timer behind.
func RunProcessing(ctx context.Context, p Processing, report func(Progress)) error {
	if !p.Enabled || p.Duration <= 0 {
		report(p.At(p.Duration))
		return nil
	}

	ticker := time.NewTicker(p.Interval())
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			pr := p.At(time.Since(start))
			report(pr)
			if pr.Done {
				return nil
			}
		}
	}
}
