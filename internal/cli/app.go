package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/konexlab/konex/internal/catalog"
	"github.com/konexlab/konex/internal/config"
	"github.com/konexlab/konex/internal/configurator"
	"github.com/konexlab/konex/internal/document"
	"github.com/konexlab/konex/internal/lead"
	"github.com/konexlab/konex/internal/logging"
	"github.com/konexlab/konex/internal/pipeline"
)

// loadConfig reads the config file, falling back to defaults when it does
// not exist.
func loadConfig(w io.Writer) (*config.Config, error) {
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = config.ConfigFilePath()
	}

	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(w, "No config file found, using defaults.")
			fmt.Fprintf(w, "Create %s to customize.\n\n", cfgPath)
			return config.Defaults(), nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	fmt.Fprintf(w, "Config: %s\n\n", cfgPath)
	return cfg, nil
}

// fileLogger logs to the rotating log file, or nowhere if it cannot be
// opened.
func fileLogger() *slog.Logger {
	logger, err := logging.Setup(config.LogFilePath(), flagVerbose)
	if err != nil {
		return logging.Nop()
	}
	return logger
}

// app holds the configurator core wired from config.
type app struct {
	cfg        *config.Config
	catalog    *catalog.Catalog
	processing configurator.Processing
	brand      document.Brand
	generator  *document.Generator
	gateway    *lead.Gateway
	finisher   *pipeline.Finisher
	logger     *slog.Logger
}

func newApp(cfg *config.Config, logger *slog.Logger) (*app, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	brand := document.Brand{
		Name:    cfg.Brand.Name,
		Tagline: cfg.Brand.Tagline,
		Footer:  cfg.Brand.Footer,
	}
	images := &document.AssetLoader{AssetsDir: cfg.Catalog.AssetsDir, Client: &http.Client{}}
	gen := document.NewGenerator(brand, cfg.Document.FileName, images, cfg.ImageTimeout(), logger)

	sender := &lead.HTTPSender{
		Endpoint: cfg.Lead.Endpoint,
		APIKey:   cfg.Lead.APIKey,
		Client:   &http.Client{},
	}
	gw := lead.NewGateway(sender, cfg.LeadTimeout(), logger)
	if cfg.Lead.Endpoint == "" {
		logger.Warn("no lead endpoint configured; leads will not be delivered")
	}

	return &app{
		cfg:     cfg,
		catalog: cat,
		processing: configurator.Processing{
			Enabled:  cfg.Processing.Enabled,
			Duration: cfg.ProcessingDuration(),
			Tick:     cfg.ProcessingTick(),
			Statuses: cfg.Processing.Statuses,
		},
		brand:     brand,
		generator: gen,
		gateway:   gw,
		finisher: &pipeline.Finisher{
			Renderer:       gen,
			Submitter:      gw,
			AttachDocument: cfg.Lead.AttachDocument,
		},
		logger: logger,
	}, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default()
	}
	cat, err := catalog.LoadFromFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return cat, nil
}
