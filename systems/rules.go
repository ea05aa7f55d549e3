// Package systems implements the per-blob and per-grid simulation rules.
// Every stochastic function takes the caller's *rand.Rand; nothing here
// touches the global random source.
package systems

import "github.com/pthm-cable/orchard/config"

// Rules holds the tunable parameters the systems read on every step.
// Built once from a validated config and shared read-only.
type Rules struct {
	GridSize             int
	AppleGrowProbability float64

	AppleEnergyGain   int
	EnergyLossPerStep int

	BaseDeathProbability float64
	AgingThresholds      []int // Indexed by gene; entry 0 unused

	BirthEnergy int
	Cooldown    int
	MinAge      int
	MaxDistance int
}

// NewRules extracts the simulation rules from a configuration.
func NewRules(cfg *config.Config) *Rules {
	return &Rules{
		GridSize:             cfg.World.GridSize,
		AppleGrowProbability: cfg.World.AppleGrowProbability,
		AppleEnergyGain:      cfg.Energy.AppleEnergyGain,
		EnergyLossPerStep:    cfg.Energy.EnergyLossPerStep,
		BaseDeathProbability: cfg.Genetics.BaseDeathProbability,
		AgingThresholds:      append([]int(nil), cfg.Genetics.AgingThresholds...),
		BirthEnergy:          cfg.Reproduction.BirthEnergy,
		Cooldown:             cfg.Reproduction.Cooldown,
		MinAge:               cfg.Reproduction.MinAge,
		MaxDistance:          cfg.Reproduction.MaxDistance,
	}
}
