// Package main provides CMA-ES calibration of the orchard's food and
// mortality parameters against a target population.
package main

import (
	"math"

	"github.com/pthm-cable/orchard/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the calibrated parameter set. Defaults are taken
// from base so the search starts at the user's configuration.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "apple_grow_probability", Path: "world.apple_grow_probability", Min: 0.01, Max: 0.9},
			{Name: "apple_energy_gain", Path: "energy.apple_energy_gain", Min: 1, Max: 12},
			{Name: "base_death_probability", Path: "genetics.base_death_probability", Min: 0, Max: 0.25},
		},
	}
	current := pv.ExtractFromConfig(base)
	for i := range pv.Specs {
		pv.Specs[i].Default = current[i]
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = math.Min(math.Max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// The energy gain is an integer and is rounded.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	cfg.World.AppleGrowProbability = clamped[0]
	cfg.Energy.AppleEnergyGain = int(math.Round(clamped[1]))
	cfg.Genetics.BaseDeathProbability = clamped[2]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.World.AppleGrowProbability,
		float64(cfg.Energy.AppleEnergyGain),
		cfg.Genetics.BaseDeathProbability,
	}
}
