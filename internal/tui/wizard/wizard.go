// Package wizard is the terminal front end of the configurator. The screen
// shown is always the stage of the underlying RunState.
package wizard

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/konexlab/konex/internal/catalog"
	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/document"
	"github.com/konexlab/konex/internal/logging"
	"github.com/konexlab/konex/internal/pipeline"
	"github.com/konexlab/konex/internal/recommend"
	"github.com/konexlab/konex/internal/tui/components"
)

const downloadTimeout = 30 * time.Second

// Deps are the collaborators of the wizard.
type Deps struct {
	Catalog    *catalog.Catalog
	Processing configurator.Processing
	Brand      document.Brand

	// Finisher runs when a run reaches its result. Nil disables rendering
	// and submission.
	Finisher *pipeline.Finisher

	// Renderer and OutputDir serve the download key.
	Renderer  pipeline.Renderer
	OutputDir string

	Logger *slog.Logger
}

// WizardModel is the top-level tea.Model coordinating
// question → contact → processing → result.
type WizardModel struct {
	deps   Deps
	styles components.Styles
	banner string
	run    *configurator.RunState

	question   QuestionModel
	contact    ContactModel
	processing ProcessingModel
	result     ResultModel

	bridge *Bridge

	width    int
	height   int
	quitting bool
}

// New creates a WizardModel on the first question.
func New(deps Deps) WizardModel {
	if deps.Logger == nil {
		deps.Logger = logging.Nop()
	}
	styles := components.DefaultStyles()
	banner := components.RenderBanner(styles, deps.Brand.Name, deps.Brand.Tagline)
	withProcessing := deps.Processing.Enabled && deps.Processing.Duration > 0

	m := WizardModel{
		deps:   deps,
		styles: styles,
		banner: banner,
		run:    configurator.New(deps.Catalog.LastQuestionStep(), withProcessing),
		result: NewResultModel(styles, banner),
	}
	m.question = m.questionFor(m.run.Step())
	m.logger().Info("run started")
	return m
}

// Init satisfies tea.Model.
func (m WizardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and delegates to the active screen.
func (m WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.question, _ = m.question.Update(msg)
		m.processing, _ = m.processing.Update(msg)
		m.result, _ = m.result.Update(msg)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.detachBridge()
			m.quitting = true
			return m, tea.Quit
		case "ctrl+r":
			return m.reset()
		}
	}

	switch m.run.Stage() {
	case configurator.StageQuestion:
		return m.updateQuestion(msg)
	case configurator.StageContact:
		return m.updateContact(msg)
	case configurator.StageProcessing:
		return m.updateProcessing(msg)
	case configurator.StageResult:
		return m.updateResult(msg)
	}
	return m, nil
}

// View renders the active screen.
func (m WizardModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.run.Stage() {
	case configurator.StageQuestion:
		return m.question.View()
	case configurator.StageContact:
		return m.contact.View()
	case configurator.StageProcessing:
		return m.processing.View()
	case configurator.StageResult:
		return m.result.View()
	}
	return ""
}

func (m WizardModel) updateQuestion(msg tea.Msg) (tea.Model, tea.Cmd) {
	chosen, ok := msg.(OptionChosenMsg)
	if !ok {
		var cmd tea.Cmd
		m.question, cmd = m.question.Update(msg)
		return m, cmd
	}

	step := m.run.Step()
	if err := m.run.Select(chosen.Value); err != nil {
		m.logger().Warn("answer rejected", slog.String("error", err.Error()))
		return m, nil
	}
	m.logger().Debug("answer recorded", slog.Int("step", step), slog.String("value", chosen.Value))

	if m.run.Stage() == configurator.StageContact {
		m.contact = NewContactModel(m.styles, m.banner)
		return m, m.contact.Init()
	}
	m.question = m.questionFor(m.run.Step())
	return m, nil
}

func (m WizardModel) updateContact(msg tea.Msg) (tea.Model, tea.Cmd) {
	submit, ok := msg.(ContactSubmitMsg)
	if !ok {
		var cmd tea.Cmd
		m.contact, cmd = m.contact.Update(msg)
		m.run.SetContact(m.contact.Contact())
		return m, cmd
	}

	m.run.SetContact(submit.Contact)
	if !m.run.SubmitContact() {
		missing := submit.Contact.Missing()
		m.logger().Debug("contact incomplete", slog.Any("missing", missing))
		if len(missing) > 0 {
			m.contact = m.contact.FocusField(missing[0])
		}
		return m, nil
	}

	if m.run.Stage() == configurator.StageProcessing {
		m.processing = NewProcessingModel(m.styles, m.banner, m.deps.Processing)
		if m.width > 0 {
			m.processing, _ = m.processing.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		}
		return m, tea.Batch(m.processing.Init(), m.tick())
	}
	return m.enterResult()
}

func (m WizardModel) updateProcessing(msg tea.Msg) (tea.Model, tea.Cmd) {
	tick, ok := msg.(processingTickMsg)
	if !ok {
		var cmd tea.Cmd
		m.processing, cmd = m.processing.Update(msg)
		return m, cmd
	}

	if tick.Epoch != m.run.Epoch() {
		return m, nil
	}

	var pr configurator.Progress
	m.processing, pr = m.processing.Advance()
	if !pr.Done {
		return m, m.tick()
	}
	if !m.run.FinishProcessing(tick.Epoch) {
		return m, nil
	}
	return m.enterResult()
}

func (m WizardModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case StepStartMsg, StepDoneMsg, StepErrorMsg:
		if runIDOf(msg) != m.run.ID() {
			return m, nil
		}
		var cmd tea.Cmd
		m.result, cmd = m.result.Update(msg)
		cmds = append(cmds, cmd)
		if m.bridge != nil {
			cmds = append(cmds, m.bridge.NextMsg())
		}

	case AllDoneMsg:
		if msg.RunID != m.run.ID() {
			return m, nil
		}
		m.result, _ = m.result.Update(msg)
		m.logger().Info("run finished",
			slog.Int("completed", msg.Result.Completed),
			slog.Int("skipped", msg.Result.Skipped),
			slog.Bool("submitted", msg.Outcome.Submitted),
		)

	case DownloadDoneMsg:
		if msg.RunID != m.run.ID() {
			return m, nil
		}
		m.result, _ = m.result.Update(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "d":
			if m.deps.Renderer == nil {
				return m, nil
			}
			m.result = m.result.SetDownloading()
			return m, m.download()
		case "r":
			return m.reset()
		case "q", "esc":
			m.detachBridge()
			m.quitting = true
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.result, cmd = m.result.Update(msg)
			cmds = append(cmds, cmd)
		}

	default:
		var cmd tea.Cmd
		m.result, cmd = m.result.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// enterResult computes the bundle and starts the finish steps.
func (m WizardModel) enterResult() (tea.Model, tea.Cmd) {
	bundle := recommend.Recommend(m.deps.Catalog, m.run.Answers())
	m.result = m.result.SetBundle(bundle, m.run.Contact().FirstName)
	m.logger().Info("recommendation ready", slog.String("pack", bundle.Title))

	cmds := []tea.Cmd{m.result.Init()}
	if m.deps.Finisher != nil {
		out := &pipeline.Outcome{}
		steps := m.deps.Finisher.Steps(m.run, bundle, out)
		runner := pipeline.NewRunner(m.logger())
		m.bridge = NewBridge(runner, m.run.ID(), steps, out)
		cmds = append(cmds, m.bridge.Start())
	}
	return m, tea.Batch(cmds...)
}

// reset discards the current run and returns to the first question.
func (m WizardModel) reset() (tea.Model, tea.Cmd) {
	m.cancelBridge()
	m.logger().Info("run reset", slog.String("stage", m.run.Stage().String()))
	m.run.Reset()
	m.question = m.questionFor(m.run.Step())
	m.logger().Info("run started")
	return m, nil
}

func (m *WizardModel) cancelBridge() {
	if m.bridge != nil {
		m.bridge.Cancel()
		m.bridge = nil
	}
}

// detachBridge keeps the finish steps of a completed run going after the
// UI exits. Wait blocks until they are done.
func (m *WizardModel) detachBridge() {
	if m.bridge != nil {
		m.bridge.Detach()
	}
}

// Wait blocks until the finish steps of the last run have completed or ctx
// is done. Call it after the program exits and before draining the lead
// gateway.
func (m WizardModel) Wait(ctx context.Context) error {
	if m.bridge == nil {
		return nil
	}
	return m.bridge.Wait(ctx)
}

func (m WizardModel) tick() tea.Cmd {
	epoch := m.run.Epoch()
	return tea.Tick(m.deps.Processing.Interval(), func(time.Time) tea.Msg {
		return processingTickMsg{Epoch: epoch}
	})
}

func (m WizardModel) download() tea.Cmd {
	renderer := m.deps.Renderer
	dir := m.deps.OutputDir
	runID := m.run.ID()
	in := document.Input{Bundle: m.result.Bundle(), Contact: m.run.Contact()}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
		defer cancel()

		doc, err := renderer.Render(ctx, in)
		if err != nil {
			return DownloadDoneMsg{RunID: runID, Err: err}
		}
		path, err := doc.Save(dir)
		return DownloadDoneMsg{RunID: runID, Path: path, Err: err}
	}
}

func (m WizardModel) questionFor(n int) QuestionModel {
	step, err := m.deps.Catalog.Step(n)
	if err != nil {
		m.logger().Error("missing catalog step", slog.Int("step", n), slog.String("error", err.Error()))
	}
	q := NewQuestionModel(m.styles, m.banner, step, m.run.LastStep())
	q, _ = q.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
	return q
}

func (m WizardModel) logger() *slog.Logger {
	return logging.ForRun(m.deps.Logger, m.run.ID())
}

func runIDOf(msg tea.Msg) string {
	switch msg := msg.(type) {
	case StepStartMsg:
		return msg.RunID
	case StepDoneMsg:
		return msg.RunID
	case StepErrorMsg:
		return msg.RunID
	}
	return ""
}

// Run returns the underlying run state.
func (m WizardModel) Run() *configurator.RunState {
	return m.run
}

// Stage returns the stage on screen (for testing).
func (m WizardModel) Stage() configurator.Stage {
	return m.run.Stage()
}
