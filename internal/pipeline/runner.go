// Package pipeline runs the ordered work that follows a completed wizard
// run: rendering the study and handing the lead to the gateway. Steps are
// checked before they run and report progress through callbacks so the
// terminal UI and the headless command share one sequence.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Step is a single operation in a pipeline.
type Step struct {
	// Name is a short label shown while the step runs.
	Name string

	// Explain is a one-line description for the status panel.
	Explain string

	// Check returns true when the step has nothing to do.
	Check func(ctx context.Context) bool

	// Run executes the step.
	Run func(ctx context.Context) error

	// Optional steps log their failure and let the pipeline continue.
	Optional bool
}

// Result captures the outcome of a pipeline run.
type Result struct {
	Completed int
	Skipped   int
	Total     int

	// Failed lists optional steps that returned an error.
	Failed []string

	// FailedStep and Err are set when a required step failed; no step after
	// it ran.
	FailedStep string
	Err        error
}

// StepCallback is invoked after each step is processed.
type StepCallback func(step *Step, index, total int, skipped bool, err error)

// PreStepCallback is invoked before each step begins.
type PreStepCallback func(step *Step, index, total int)

// Runner executes steps in order with check-before-run semantics.
type Runner struct {
	logger      *slog.Logger
	callback    StepCallback
	preCallback PreStepCallback
}

func NewRunner(logger *slog.Logger) *Runner {
	return &Runner{logger: logger}
}

// SetCallback registers the post-step callback. Pass nil to clear.
func (r *Runner) SetCallback(cb StepCallback) {
	r.callback = cb
}

// SetPreStepCallback registers the pre-step callback. Pass nil to clear.
func (r *Runner) SetPreStepCallback(cb PreStepCallback) {
	r.preCallback = cb
}

// Run executes steps sequentially. A step whose Check returns true is
// skipped. A failing required step stops the run; a failing optional step
// is recorded in Result.Failed.
func (r *Runner) Run(ctx context.Context, steps []Step) Result {
	result := Result{Total: len(steps)}

	for i := range steps {
		step := &steps[i]

		if r.preCallback != nil {
			r.preCallback(step, i, result.Total)
		}

		if err := ctx.Err(); err != nil {
			result.FailedStep = step.Name
			result.Err = err
			r.notify(step, i, result.Total, false, err)
			return result
		}

		if step.Check != nil && step.Check(ctx) {
			result.Skipped++
			r.logger.Debug("step has nothing to do, skipping", slog.String("step", step.Name))
			r.notify(step, i, result.Total, true, nil)
			continue
		}

		start := time.Now()
		err := step.Run(ctx)
		elapsed := time.Since(start)

		if err != nil {
			r.logger.Error("step failed",
				slog.String("step", step.Name),
				slog.Bool("optional", step.Optional),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
			r.notify(step, i, result.Total, false, err)
			if step.Optional {
				result.Failed = append(result.Failed, step.Name)
				continue
			}
			result.FailedStep = step.Name
			result.Err = fmt.Errorf("step %q failed: %w", step.Name, err)
			return result
		}

		result.Completed++
		r.logger.Info("step completed",
			slog.String("step", step.Name),
			slog.Duration("elapsed", elapsed),
		)
		r.notify(step, i, result.Total, false, nil)
	}

	return result
}

func (r *Runner) notify(step *Step, index, total int, skipped bool, err error) {
	if r.callback != nil {
		r.callback(step, index, total, skipped, err)
	}
}
