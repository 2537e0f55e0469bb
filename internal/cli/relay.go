package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/konexlab/konex/internal/crm"
	"github.com/konexlab/konex/internal/logging"
	"github.com/spf13/cobra"
)

func newRelayCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Serve the lead endpoint and record leads in Odoo",
		Long:  "Runs the HTTP endpoint the configurator posts leads to. Odoo credentials are read from ODOO_URL, ODOO_DB, ODOO_USER and ODOO_PASSWORD, optionally from the [relay] env_file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRelay(cmd, listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "Listen address (default: [relay] listen)")
	return cmd
}

func runRelay(cmd *cobra.Command, listen string) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	logger := logging.Console(os.Stderr, flagVerbose)

	if cfg.Relay.EnvFile != "" {
		if err := godotenv.Load(cfg.Relay.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", cfg.Relay.EnvFile, err)
		}
	}

	odooCfg, err := crm.OdooConfigFromEnv()
	if err != nil {
		return err
	}

	if !flagVerbose {
		gin.SetMode(gin.ReleaseMode)
	}

	if listen == "" {
		listen = cfg.Relay.Listen
	}

	app := crm.NewApp(crm.Settings{
		Odoo:        odooCfg,
		OdooTimeout: cfg.OdooTimeout(),
		Brand:       cfg.Brand.Name,
		Addr:        listen,
	}, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("starting relay: %w", err)
	}

	var exitCode int
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		exitCode = sig.ExitCode
	}

	stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		return fmt.Errorf("stopping relay: %w", err)
	}
	if exitCode != 0 {
		return errors.New("relay stopped unexpectedly")
	}
	return nil
}
