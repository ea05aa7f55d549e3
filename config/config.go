// Package config provides configuration loading and validation for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig        `yaml:"world"`
	Energy       EnergyConfig       `yaml:"energy"`
	Genetics     GeneticsConfig     `yaml:"genetics"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Run          RunConfig          `yaml:"run"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`
	Screen       ScreenConfig       `yaml:"screen"`
	Stream       StreamConfig       `yaml:"stream"`
	Log          LogConfig          `yaml:"log"`
}

// WorldConfig holds grid and initial population parameters.
type WorldConfig struct {
	GridSize             int     `yaml:"grid_size"`
	NumTrees             int     `yaml:"num_trees"`
	NumBlobs             int     `yaml:"num_blobs"`
	AppleGrowProbability float64 `yaml:"apple_grow_probability"` // Per empty tree per year
}

// EnergyConfig holds the blob energy economy.
type EnergyConfig struct {
	InitialEnergy     int `yaml:"initial_energy"`
	AppleEnergyGain   int `yaml:"apple_energy_gain"`
	EnergyLossPerStep int `yaml:"energy_loss_per_step"`
}

// GeneticsConfig holds chromosome and aging parameters.
// Gene 0 is a control gene and never kills; AgingThresholds[0] is ignored.
type GeneticsConfig struct {
	NumGenes             int     `yaml:"num_genes"`
	BaseDeathProbability float64 `yaml:"base_death_probability"`
	AgingThresholds      []int   `yaml:"aging_thresholds"` // Empty = i*10 per gene
}

// ReproductionConfig holds pairing parameters.
type ReproductionConfig struct {
	Enabled     bool `yaml:"enabled"`
	BirthEnergy int  `yaml:"birth_energy"`
	Cooldown    int  `yaml:"cooldown"`     // Minimum years between reproductions
	MinAge      int  `yaml:"min_age"`
	MaxDistance int  `yaml:"max_distance"` // Manhattan
}

// RunConfig holds run length and seeding.
type RunConfig struct {
	YearsToRun int   `yaml:"years_to_run"`
	Seed       int64 `yaml:"seed"` // 0 = time-based
}

// TelemetryConfig holds statistics output settings.
type TelemetryConfig struct {
	LogStats  bool   `yaml:"log_stats"`
	OutputDir string `yaml:"output_dir"` // Empty = no files written
	CSV       bool   `yaml:"csv"`
	Arrow     bool   `yaml:"arrow"`
	SQLite    bool   `yaml:"sqlite"`
	Snapshots bool   `yaml:"snapshots"` // Population snapshot on each bookmark
}

// ScreenConfig holds viewer settings.
type ScreenConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	TargetFPS      int     `yaml:"target_fps"`
	YearsPerSecond float64 `yaml:"years_per_second"`
}

// StreamConfig holds the websocket stats stream settings.
type StreamConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Default returns the embedded default configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds a configuration from YAML bytes merged over the embedded defaults.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.computeDerived()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived fills values that default from other fields.
func (c *Config) computeDerived() {
	if len(c.Genetics.AgingThresholds) == 0 && c.Genetics.NumGenes > 0 {
		c.Genetics.AgingThresholds = DefaultAgingThresholds(c.Genetics.NumGenes)
	}
}

// DefaultAgingThresholds returns thresholds of i*10 years for gene i.
func DefaultAgingThresholds(numGenes int) []int {
	t := make([]int, numGenes)
	for i := range t {
		t[i] = i * 10
	}
	return t
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Genetics.AgingThresholds = append([]int(nil), c.Genetics.AgingThresholds...)
	return &cp
}

// Marshal returns the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// DefaultsYAML returns the embedded defaults file.
func DefaultsYAML() []byte {
	return defaultsYAML
}
