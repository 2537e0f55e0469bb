package wizard

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/konexlab/konex/internal/pipeline"
)

// Bridge drives the finish steps of one run off the UI goroutine. Progress
// reaches the wizard as run-tagged messages so a reset run's updates can be
// told apart and dropped.
type Bridge struct {
	runner *pipeline.Runner
	runID  string
	steps  []pipeline.Step
	out    *pipeline.Outcome
	msgs   chan tea.Msg
	ctx    context.Context
	cancel context.CancelFunc

	detached   chan struct{}
	detachOnce sync.Once
	done       chan struct{}
}

// NewBridge creates a Bridge for the finish steps of one run. out is filled
// in by the steps.
func NewBridge(runner *pipeline.Runner, runID string, steps []pipeline.Step, out *pipeline.Outcome) *Bridge {
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		runner: runner,
		runID:  runID,
		steps:  steps,
		out:    out,
		msgs:   make(chan tea.Msg, 16),
		ctx:      ctx,
		cancel:   cancel,
		detached: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Cancel stops the steps that have not started yet. Used when the run is
// discarded.
func (b *Bridge) Cancel() {
	b.cancel()
}

// Detach lets the steps run to completion with nobody reading progress.
// Used when the UI exits; a finished run still gets its lead sent.
func (b *Bridge) Detach() {
	b.detachOnce.Do(func() { close(b.detached) })
}

// Wait blocks until the steps have finished or ctx is done.
func (b *Bridge) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// emit hands msg to the UI unless the bridge was cancelled or detached.
func (b *Bridge) emit(msg tea.Msg) {
	select {
	case b.msgs <- msg:
	case <-b.ctx.Done():
	case <-b.detached:
	}
}

// Start runs the steps on a goroutine and returns the command that
// delivers the first message.
func (b *Bridge) Start() tea.Cmd {
	b.runner.SetPreStepCallback(func(step *pipeline.Step, index, total int) {
		b.emit(StepStartMsg{RunID: b.runID, StepName: step.Name, Explain: step.Explain, Index: index, Total: total})
	})
	b.runner.SetCallback(b.stepFinished)

	go b.run()
	return b.NextMsg()
}

func (b *Bridge) stepFinished(step *pipeline.Step, index, total int, skipped bool, err error) {
	if err != nil {
		b.emit(StepErrorMsg{RunID: b.runID, StepName: step.Name, Index: index, Total: total, Err: err})
		return
	}
	b.emit(StepDoneMsg{RunID: b.runID, StepName: step.Name, Index: index, Total: total, Skipped: skipped})
}

func (b *Bridge) run() {
	defer close(b.done)
	defer close(b.msgs)

	result := b.runner.Run(b.ctx, b.steps)
	b.emit(AllDoneMsg{RunID: b.runID, Result: result, Outcome: *b.out})
}

// NextMsg waits for the next progress message; nil once the run is over.
func (b *Bridge) NextMsg() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.msgs
		if !ok {
			return nil
		}
		return msg
	}
}
