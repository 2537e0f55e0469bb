// Package configurator holds the wizard run state and its transitions:
// questions, contact capture, an optional timed processing stage, and the
// terminal result stage.
package configurator

import (
	"errors"
	"fmt"
	"maps"
	"sync"

	"github.com/google/uuid"
)

// ErrInvalidTransition is returned when an operation is not valid in the
// current stage.
var ErrInvalidTransition = errors.New("invalid transition")

// Stage is the wizard screen the run is on.
type Stage int

const (
	StageQuestion Stage = iota
	StageContact
	StageProcessing
	StageResult
)

// String returns the human-readable name for a Stage.
func (s Stage) String() string {
	switch s {
	case StageQuestion:
		return "question"
	case StageContact:
		return "contact"
	case StageProcessing:
		return "processing"
	case StageResult:
		return "result"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Direction is the navigation direction of the last transition. It only
// drives screen transitions in the UI.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// RunState is the complete mutable state of one wizard session. It is safe
// for concurrent use: the UI loop drives transitions while the finish steps
// read it from a background goroutine.
type RunState struct {
	lastStep   int
	processing bool

	mu        sync.Mutex
	id        string
	stage     Stage
	step      int
	answers   map[int]string
	contact   Contact
	direction Direction
	epoch     uint64
	sent      bool
}

// Snapshot is an immutable copy of the data a lead is built from.
type Snapshot struct {
	ID      string
	Answers map[int]string
	Contact Contact
}

// New creates a run positioned on Question(1). lastStep is the number of
// question steps; withProcessing inserts the timed processing stage between
// contact and result.
func New(lastStep int, withProcessing bool) *RunState {
	r := &RunState{
		lastStep:   lastStep,
		processing: withProcessing,
	}
	r.init(Forward)
	return r
}

func (r *RunState) init(dir Direction) {
	r.id = uuid.NewString()
	r.stage = StageQuestion
	r.step = 1
	r.answers = make(map[int]string)
	r.contact = Contact{}
	r.direction = dir
	r.epoch++
	r.sent = false
}

// ID identifies the current run. It changes on Reset.
func (r *RunState) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// Stage returns the current stage.
func (r *RunState) Stage() Stage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stage
}

// Step returns the current question number. Past the questions it is
// lastStep+1.
func (r *RunState) Step() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.step
}

// LastStep returns the number of question steps.
func (r *RunState) LastStep() int { return r.lastStep }

// Direction returns the direction of the last transition.
func (r *RunState) Direction() Direction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.direction
}

// Epoch increases on every reset. Scheduled work captured under an older
// epoch must be discarded.
func (r *RunState) Epoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

// Answers returns a copy of the recorded answers keyed by step number.
func (r *RunState) Answers() map[int]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.answers)
}

// Answer returns the value recorded for step n.
func (r *RunState) Answer(n int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.answers[n]
	return v, ok
}

// Contact returns the captured contact fields.
func (r *RunState) Contact() Contact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.contact
}

// Select records value for the current question and advances.
func (r *RunState) Select(value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage != StageQuestion {
		return fmt.Errorf("%w: select in %s stage", ErrInvalidTransition, r.stage)
	}

	r.answers[r.step] = value
	r.direction = Forward
	r.step++
	if r.step > r.lastStep {
		r.stage = StageContact
	}
	return nil
}

// SetContactField updates one contact field. Outside the contact stage the
// update is ignored.
func (r *RunState) SetContactField(f Field, v string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage != StageContact {
		return
	}
	r.contact.Set(f, v)
}

// SetContact replaces all contact fields. Outside the contact stage the
// update is ignored.
func (r *RunState) SetContact(c Contact) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage != StageContact {
		return
	}
	r.contact = c
}

// SubmitContact leaves the contact stage when all required fields are
// present. A blank required field is a silent rejection: it returns false
// and the state is unchanged.
func (r *RunState) SubmitContact() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stage != StageContact || !r.contact.Valid() {
		return false
	}

	r.direction = Forward
	if r.processing {
		r.stage = StageProcessing
	} else {
		r.stage = StageResult
	}
	return true
}

// FinishProcessing moves from processing to result. Calls carrying an epoch
// from before the last Reset are ignored.
func (r *RunState) FinishProcessing(epoch uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if epoch != r.epoch || r.stage != StageProcessing {
		return false
	}
	r.stage = StageResult
	return true
}

// Reset discards the run and starts over on Question(1).
func (r *RunState) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.init(Backward)
}

// Claim marks the lead submission of run id as taken and returns the data
// to submit. It fails when the run was reset since id was observed, when it
// has not reached the result stage, or when the submission was already
// claimed.
func (r *RunState) Claim(id string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.id != id || r.stage != StageResult || r.sent {
		return Snapshot{}, false
	}
	r.sent = true
	return Snapshot{ID: r.id, Answers: maps.Clone(r.answers), Contact: r.contact}, true
}

// Submitted reports whether the lead submission has been claimed.
func (r *RunState) Submitted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent
}
