package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/konexlab/konex/internal/tui/wizard"
	"github.com/spf13/cobra"
)

// drainTimeout bounds how long the CLI waits for in-flight lead submissions
// on exit.
const drainTimeout = 10 * time.Second

func newConfigureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Run the interactive configurator",
		RunE:  runConfigure,
	}
}

func runConfigure(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	logger := fileLogger()
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}

	model := wizard.New(wizard.Deps{
		Catalog:    a.catalog,
		Processing: a.processing,
		Brand:      a.brand,
		Finisher:   a.finisher,
		Renderer:   a.generator,
		OutputDir:  cfg.Document.OutputDir,
		Logger:     logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running wizard: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	// Finish steps hand the lead to the gateway; let them complete first.
	if wm, ok := final.(wizard.WizardModel); ok {
		if err := wm.Wait(ctx); err != nil {
			logger.Warn("exiting before the result steps finished", slog.String("error", err.Error()))
		}
	}
	if err := a.gateway.Wait(ctx); err != nil {
		logger.Warn("exiting with lead submission in flight", slog.String("error", err.Error()))
	}
	return nil
}
