package pipeline

import (
	"fmt"
	"os"

	"github.com/cwbudde/algo-dynid/dsp/core"
	"github.com/cwbudde/algo-dynid/dsp/diff"
	"github.com/cwbudde/algo-dynid/dsp/filter/design"
	"github.com/cwbudde/algo-dynid/ident/conditioner"
	"github.com/cwbudde/algo-dynid/ident/models"
	"gopkg.in/yaml.v3"
)

// Config describes one identification run.
type Config struct {
	// DOF is the number of joints in the log. Zero takes the model's.
	DOF int `yaml:"dof"`
	// SampleInterval is the nominal sampling interval h in seconds.
	SampleInterval float64 `yaml:"sample_interval"`
	// Cutoffs are in Hz; .inf disables filtering of a channel kind.
	Cutoffs               conditioner.Cutoffs `yaml:"cutoffs"`
	FilterOrder           int                 `yaml:"filter_order"`
	Scheme                int                 `yaml:"scheme"`
	Workers               int                 `yaml:"workers"`
	DifferentiateFiltered bool                `yaml:"differentiate_filtered"`
	// Model names a regressor from package models.
	Model string `yaml:"model"`
	// BaseColumns overrides the model's base parameter columns.
	BaseColumns []int `yaml:"base_columns"`
	// Trim drops this many conditioned samples at each end before the
	// regression is assembled.
	Trim int `yaml:"trim"`
}

// Default returns the configuration used for unset fields.
func Default() *Config {
	return &Config{
		SampleInterval: 0.001,
		Cutoffs: conditioner.Cutoffs{
			Q:   10,
			DQ:  10,
			DDQ: 10,
			Tau: 10,
		},
		FilterOrder: conditioner.DefaultOrder,
		Scheme:      int(diff.DefaultScheme),
		Model:       "planar2r",
	}
}

// Load reads a YAML configuration and fills unset fields from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&c)
	return &c, nil
}

func applyDefaults(c *Config) {
	d := Default()
	if c.SampleInterval == 0 {
		c.SampleInterval = d.SampleInterval
	}
	if c.Cutoffs.Q == 0 {
		c.Cutoffs.Q = d.Cutoffs.Q
	}
	if c.Cutoffs.DQ == 0 {
		c.Cutoffs.DQ = d.Cutoffs.DQ
	}
	if c.Cutoffs.DDQ == 0 {
		c.Cutoffs.DDQ = d.Cutoffs.DDQ
	}
	if c.Cutoffs.Tau == 0 {
		c.Cutoffs.Tau = d.Cutoffs.Tau
	}
	if c.FilterOrder == 0 {
		c.FilterOrder = d.FilterOrder
	}
	if c.Scheme == 0 {
		c.Scheme = d.Scheme
	}
	if c.Model == "" {
		c.Model = d.Model
	}
}

// Validate checks the configuration against the named model.
func (c *Config) Validate() error {
	if err := c.validateSettings(); err != nil {
		return err
	}
	m, err := models.Lookup(c.Model)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return c.validateModel(m)
}

func (c *Config) validateSettings() error {
	if !core.ValidInterval(c.SampleInterval) {
		return fmt.Errorf("config: sample_interval must be finite and > 0: %v", c.SampleInterval)
	}
	if c.FilterOrder < 1 || c.FilterOrder > design.MaxOrder {
		return fmt.Errorf("config: filter_order must be in [1,%d]: %d", design.MaxOrder, c.FilterOrder)
	}
	if !diff.Scheme(c.Scheme).Valid() {
		return fmt.Errorf("config: scheme must be 2 or 4: %d", c.Scheme)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0: %d", c.Workers)
	}
	if c.Trim < 0 {
		return fmt.Errorf("config: trim must be >= 0: %d", c.Trim)
	}
	return nil
}

func (c *Config) validateModel(m models.Model) error {
	if c.DOF != 0 && c.DOF != m.DOF {
		return fmt.Errorf("config: dof %d does not match model %s (%d)", c.DOF, m.Name, m.DOF)
	}
	for _, col := range c.BaseColumns {
		if col < 0 || col >= m.ParamCount() {
			return fmt.Errorf("config: base column %d outside [0,%d)", col, m.ParamCount())
		}
	}
	return nil
}

// conditionerConfig returns the conditioning settings of c.
func (c *Config) conditionerConfig() conditioner.Config {
	return conditioner.Config{
		Cutoffs:               c.Cutoffs,
		Order:                 c.FilterOrder,
		Scheme:                diff.Scheme(c.Scheme),
		Workers:               c.Workers,
		DifferentiateFiltered: c.DifferentiateFiltered,
	}
}
