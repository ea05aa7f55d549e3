package config

import (
	"errors"
	"fmt"
)

// MaxGenes is the largest chromosome the bitset representation supports.
const MaxGenes = 64

// ErrInvalid is wrapped by every configuration validation error.
var ErrInvalid = errors.New("invalid config")

// Validate checks the simulation parameters and returns all violations joined.
// The simulation never re-checks these once a world is built.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.World.GridSize < 1 {
		fail("world.grid_size must be at least 1, got %d", c.World.GridSize)
	}
	if c.World.NumTrees < 0 {
		fail("world.num_trees must be non-negative, got %d", c.World.NumTrees)
	}
	if c.World.NumBlobs < 0 {
		fail("world.num_blobs must be non-negative, got %d", c.World.NumBlobs)
	}
	if !isProbability(c.World.AppleGrowProbability) {
		fail("world.apple_grow_probability must be in [0,1], got %v", c.World.AppleGrowProbability)
	}

	if c.Genetics.NumGenes < 1 || c.Genetics.NumGenes > MaxGenes {
		fail("genetics.num_genes must be in [1,%d], got %d", MaxGenes, c.Genetics.NumGenes)
	}
	if len(c.Genetics.AgingThresholds) != c.Genetics.NumGenes {
		fail("genetics.aging_thresholds has %d entries, want num_genes=%d",
			len(c.Genetics.AgingThresholds), c.Genetics.NumGenes)
	}
	if !isProbability(c.Genetics.BaseDeathProbability) {
		fail("genetics.base_death_probability must be in [0,1], got %v", c.Genetics.BaseDeathProbability)
	}

	if c.Reproduction.Cooldown < 0 {
		fail("reproduction.cooldown must be non-negative, got %d", c.Reproduction.Cooldown)
	}
	if c.Reproduction.MinAge < 0 {
		fail("reproduction.min_age must be non-negative, got %d", c.Reproduction.MinAge)
	}
	if c.Reproduction.MaxDistance < 0 {
		fail("reproduction.max_distance must be non-negative, got %d", c.Reproduction.MaxDistance)
	}

	if c.Run.YearsToRun < 0 {
		fail("run.years_to_run must be non-negative, got %d", c.Run.YearsToRun)
	}

	return errors.Join(errs...)
}

func isProbability(p float64) bool {
	return p >= 0 && p <= 1
}
