package wizard

import (
	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/pipeline"
)

// OptionChosenMsg is sent when the user picks an answer.
type OptionChosenMsg struct {
	Value string
}

// ContactSubmitMsg is sent when the user submits the contact form.
type ContactSubmitMsg struct {
	Contact configurator.Contact
}

// processingTickMsg advances the processing animation. Ticks from an
// earlier epoch belong to a discarded run and are dropped.
type processingTickMsg struct {
	Epoch uint64
}

// StepStartMsg is sent when a finish step begins.
type StepStartMsg struct {
	RunID    string
	StepName string
	Explain  string
	Index    int
	Total    int
}

// StepDoneMsg is sent when a finish step completes or is skipped.
type StepDoneMsg struct {
	RunID    string
	StepName string
	Index    int
	Total    int
	Skipped  bool
}

// StepErrorMsg is sent when a finish step fails.
type StepErrorMsg struct {
	RunID    string
	StepName string
	Index    int
	Total    int
	Err      error
}

// AllDoneMsg is sent when the finish steps have run.
type AllDoneMsg struct {
	RunID   string
	Result  pipeline.Result
	Outcome pipeline.Outcome
}

// DownloadDoneMsg reports a saved study.
type DownloadDoneMsg struct {
	RunID string
	Path  string
	Err   error
}
