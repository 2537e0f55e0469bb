package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/document"
	"github.com/konexlab/konex/internal/logging"
	"github.com/konexlab/konex/internal/pipeline"
	"github.com/konexlab/konex/internal/recommend"
	"github.com/spf13/cobra"
)

type quoteOptions struct {
	answers   []string
	contact   configurator.Contact
	save      bool
	outputDir string
}

func newQuoteCmd() *cobra.Command {
	var opts quoteOptions

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Run the configurator without the interactive wizard",
		Long: `Answers the questionnaire from flags, prints the recommended bundle and
submits the lead exactly as the wizard does.

  konex quote --answers House,Yes,Good,No,Security \
    --first-name Jane --last-name Doe --email jane@example.com --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, opts)
		},
	}

	cmd.Flags().StringSliceVar(&opts.answers, "answers", nil, "Answer values in step order, comma separated")
	cmd.Flags().StringVar(&opts.contact.FirstName, "first-name", "", "Contact first name")
	cmd.Flags().StringVar(&opts.contact.LastName, "last-name", "", "Contact last name")
	cmd.Flags().StringVar(&opts.contact.Email, "email", "", "Contact email")
	cmd.Flags().StringVar(&opts.contact.Phone, "phone", "", "Contact phone (optional)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "Save the PDF study")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "Directory for --save (default: [document] output_dir)")

	return cmd
}

func runQuote(cmd *cobra.Command, opts quoteOptions) error {
	out := cmd.OutOrStdout()

	cfg, err := loadConfig(out)
	if err != nil {
		return err
	}

	logger := fileLogger()
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	run := configurator.New(a.catalog.LastQuestionStep(), a.processing.Enabled && a.processing.Duration > 0)
	logger = logging.ForRun(logger, run.ID())

	if err := answerQuestions(run, opts.answers); err != nil {
		return err
	}

	run.SetContact(opts.contact)
	if !run.SubmitContact() {
		return fmt.Errorf("missing contact details: %s", joinFields(opts.contact.Missing()))
	}

	if run.Stage() == configurator.StageProcessing {
		epoch := run.Epoch()
		err := configurator.RunProcessing(ctx, a.processing, func(p configurator.Progress) {
			fmt.Fprintf(out, "  [%3d%%] %s\n", int(p.Percent*100), p.Status)
		})
		if err != nil {
			return fmt.Errorf("processing: %w", err)
		}
		run.FinishProcessing(epoch)
	}

	bundle := recommend.Recommend(a.catalog, run.Answers())
	printBundle(out, bundle)

	var outcome pipeline.Outcome
	runner := pipeline.NewRunner(logger)
	runner.SetCallback(cliStepCallback(out))
	result := runner.Run(ctx, a.finisher.Steps(run, bundle, &outcome))

	if opts.save {
		doc := outcome.Document
		if doc == nil {
			doc, err = a.generator.Render(ctx, documentInput(run, bundle))
			if err != nil {
				return fmt.Errorf("rendering study: %w", err)
			}
		}
		dir := opts.outputDir
		if dir == "" {
			dir = cfg.Document.OutputDir
		}
		path, err := doc.Save(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nStudy saved to %s (%d pages)\n", path, doc.Pages)
	}

	fmt.Fprintf(out, "\nThank you, %s. An advisor will contact you shortly.\n", run.Contact().FirstName)

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := a.gateway.Wait(drainCtx); err != nil {
		logger.Warn("exiting with lead submission in flight")
	}

	return result.Err
}

func answerQuestions(run *configurator.RunState, answers []string) error {
	if len(answers) != run.LastStep() {
		return fmt.Errorf("expected %d answers, got %d", run.LastStep(), len(answers))
	}
	for _, v := range answers {
		if err := run.Select(strings.TrimSpace(v)); err != nil {
			return err
		}
	}
	return nil
}

func printBundle(w io.Writer, b recommend.Bundle) {
	fmt.Fprintf(w, "\nRecommended: %s\n\n", b.Title)
	fmt.Fprintln(w, "Equipment:")
	for _, p := range b.Products {
		fmt.Fprintf(w, "  - %s\n", p.Title)
	}

	labels := make([]string, len(b.Scenarios))
	for i, sc := range b.Scenarios {
		labels[i] = sc.Label
	}
	fmt.Fprintf(w, "\nScenario: %s\n\n", strings.Join(labels, " -> "))
}

func cliStepCallback(w io.Writer) pipeline.StepCallback {
	return func(step *pipeline.Step, index, total int, skipped bool, err error) {
		prefix := fmt.Sprintf("  [%d/%d]", index+1, total)
		switch {
		case skipped:
			fmt.Fprintf(w, "%s  %s (nothing to do)\n", prefix, step.Name)
		case err != nil && step.Optional:
			fmt.Fprintf(w, "%s  %s skipped: %v\n", prefix, step.Name, err)
		case err != nil:
			fmt.Fprintf(w, "%s  %s FAILED: %v\n", prefix, step.Name, err)
		default:
			fmt.Fprintf(w, "%s  %s\n", prefix, step.Name)
		}
	}
}

func joinFields(fields []configurator.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}

func documentInput(run *configurator.RunState, b recommend.Bundle) document.Input {
	return document.Input{Bundle: b, Contact: run.Contact()}
}
