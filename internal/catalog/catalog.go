// Package catalog holds the static question, option and product tables that
// drive the wizard. A Catalog is read-only once loaded.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	toml "github.com/pelletier/go-toml/v2"
)

//go:embed catalog.toml
var defaultCatalog []byte

// HousingStep is the step whose option image backs the result stage.
const HousingStep = 1

// Product keys referenced by the recommendation rules.
const (
	ProductCamera = "camera"
	ProductMotion = "motion"
	ProductDoor   = "door"
	ProductSiren  = "siren"
	ProductSmoke  = "smoke"
	ProductThermo = "thermo"
	ProductTemp   = "temp"
	ProductPlug   = "plug"
	ProductSwitch = "switch"
	ProductButton = "button"
)

var (
	ErrUnknownStep    = errors.New("unknown step")
	ErrUnknownProduct = errors.New("unknown product")
)

// Option is one selectable answer within a step.
type Option struct {
	Label string `toml:"label"`
	Icon  string `toml:"icon"`
	Value string `toml:"value"`
	Image string `toml:"image"`
}

// Step is a single wizard question with its ordered options.
type Step struct {
	Number   int      `toml:"number"`
	Key      string   `toml:"key"`
	Question string   `toml:"question"`
	Options  []Option `toml:"option"`
}

// Product is a catalog entry referenced by bundles.
type Product struct {
	Key         string `toml:"-"`
	Title       string `toml:"title"`
	Icon        string `toml:"icon"`
	Description string `toml:"description"`
	Image       string `toml:"image"`
}

// Catalog is the full set of lookup tables.
type Catalog struct {
	Steps    []Step             `toml:"step"`
	Products map[string]Product `toml:"products"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// LoadFromFile reads a catalog in the same TOML layout as the embedded one.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	sort.SliceStable(c.Steps, func(i, j int) bool {
		return c.Steps[i].Number < c.Steps[j].Number
	})
	for key, p := range c.Products {
		p.Key = key
		c.Products[key] = p
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that steps are numbered 1..N without gaps, every step has
// options, and option values are unique within a step.
func (c *Catalog) Validate() error {
	if len(c.Steps) == 0 {
		return errors.New("catalog has no steps")
	}
	for i, s := range c.Steps {
		if s.Number != i+1 {
			return fmt.Errorf("step %d: expected number %d", s.Number, i+1)
		}
		if len(s.Options) == 0 {
			return fmt.Errorf("step %d has no options", s.Number)
		}
		seen := make(map[string]bool, len(s.Options))
		for _, o := range s.Options {
			if o.Value == "" {
				return fmt.Errorf("step %d: option %q has no value", s.Number, o.Label)
			}
			if seen[o.Value] {
				return fmt.Errorf("step %d: duplicate option value %q", s.Number, o.Value)
			}
			seen[o.Value] = true
		}
	}
	return nil
}

// LastQuestionStep is the number of the final question, which carries the
// customer's priority.
func (c *Catalog) LastQuestionStep() int {
	return len(c.Steps)
}

// Step returns the step with the given 1-based number.
func (c *Catalog) Step(n int) (Step, error) {
	if n < 1 || n > len(c.Steps) {
		return Step{}, fmt.Errorf("%w: %d", ErrUnknownStep, n)
	}
	return c.Steps[n-1], nil
}

// Product returns the product registered under key.
func (c *Catalog) Product(key string) (Product, error) {
	p, ok := c.Products[key]
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, key)
	}
	return p, nil
}

// OptionFor finds the option on step n whose value matches.
func (c *Catalog) OptionFor(n int, value string) (Option, bool) {
	s, err := c.Step(n)
	if err != nil {
		return Option{}, false
	}
	for _, o := range s.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

// ImageFor returns the illustrative image of the option chosen on step n, or
// "" when the value is unknown or the option has no image.
func (c *Catalog) ImageFor(n int, value string) string {
	o, ok := c.OptionFor(n, value)
	if !ok {
		return ""
	}
	return o.Image
}
