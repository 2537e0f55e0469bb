package config

import (
	"fmt"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Brand      BrandConfig      `toml:"brand"`
	Catalog    CatalogConfig    `toml:"catalog"`
	Processing ProcessingConfig `toml:"processing"`
	Document   DocumentConfig   `toml:"document"`
	Lead       LeadConfig       `toml:"lead"`
	Relay      RelayConfig      `toml:"relay"`
}

type BrandConfig struct {
	Name    string `toml:"name"`
	Tagline string `toml:"tagline"`
	Footer  string `toml:"footer"`
}

type CatalogConfig struct {
	Path      string `toml:"path"`
	AssetsDir string `toml:"assets_dir"`
}

type ProcessingConfig struct {
	Enabled    bool     `toml:"enabled"`
	DurationMS int      `toml:"duration_ms"`
	TickMS     int      `toml:"tick_ms"`
	Statuses   []string `toml:"statuses"`
}

type DocumentConfig struct {
	OutputDir      string `toml:"output_dir"`
	FileName       string `toml:"file_name"`
	ImageTimeoutMS int    `toml:"image_timeout_ms"`
}

type LeadConfig struct {
	Endpoint       string `toml:"endpoint"`
	APIKey         string `toml:"api_key"`
	TimeoutMS      int    `toml:"timeout_ms"`
	AttachDocument bool   `toml:"attach_document"`
}

type RelayConfig struct {
	Listen        string `toml:"listen"`
	EnvFile       string `toml:"env_file"`
	OdooTimeoutMS int    `toml:"odoo_timeout_ms"`
}

func Defaults() *Config {
	return &Config{
		Brand: BrandConfig{
			Name:    "Konexlab",
			Tagline: "The Home of Tomorrow",
			Footer:  "Konexlab - Home Automation & Security - www.konexlab.com",
		},
		Processing: ProcessingConfig{
			Enabled:    true,
			DurationMS: 3000,
			TickMS:     100,
			Statuses: []string{
				"Analysing your home...",
				"Matching compatible devices...",
				"Designing your scenarios...",
				"Finalising your bundle...",
			},
		},
		Document: DocumentConfig{
			OutputDir:      ".",
			FileName:       "Konexlab_Study.pdf",
			ImageTimeoutMS: 5000,
		},
		Lead: LeadConfig{
			TimeoutMS:      10000,
			AttachDocument: true,
		},
		Relay: RelayConfig{
			Listen:        ":8080",
			EnvFile:       ".env",
			OdooTimeoutMS: 15000,
		},
	}
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// ProcessingDuration returns how long the processing stage lasts.
func (c *Config) ProcessingDuration() time.Duration {
	return millis(c.Processing.DurationMS)
}

// ProcessingTick returns the progress refresh interval.
func (c *Config) ProcessingTick() time.Duration {
	return millis(c.Processing.TickMS)
}

// ImageTimeout bounds each image fetch during document generation.
func (c *Config) ImageTimeout() time.Duration {
	return millis(c.Document.ImageTimeoutMS)
}

// LeadTimeout bounds a single lead submission.
func (c *Config) LeadTimeout() time.Duration {
	return millis(c.Lead.TimeoutMS)
}

// OdooTimeout bounds each call from the relay to Odoo. Zero means the
// client default.
func (c *Config) OdooTimeout() time.Duration {
	return millis(c.Relay.OdooTimeoutMS)
}

func millis(n int) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Millisecond
}
