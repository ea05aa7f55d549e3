package systems

import (
	"math/rand"

	"github.com/pthm-cable/orchard/components"
)

// Step resolves one year for a blob: move, eat, pay the step cost, age.
//
// Death is checked in a fixed order. A blob at or below zero energy starves
// and no gene is rolled. Otherwise the aging genes are rolled; see AgingDeath.
func Step(b *components.Blob, g *Grid, r *Rules, rng *rand.Rand) components.Outcome {
	Move(b, g.Size(), rng)
	Eat(b, g, r.AppleEnergyGain)
	b.Energy -= r.EnergyLossPerStep
	b.Age++

	if b.Energy <= 0 {
		return components.Starved
	}
	if AgingDeath(b, r, rng) {
		return components.AgedOut
	}
	return components.Alive
}

// AgingDeath scans genes 1..N-1 in order. Each gene that is on and whose
// threshold the blob's age has reached draws one Bernoulli trial with the
// base death probability. The first trial that fires ends the scan.
// Gene 0 is the control gene and never draws.
func AgingDeath(b *components.Blob, r *Rules, rng *rand.Rand) bool {
	for i := components.ControlGene + 1; i < b.Chromosome.Len(); i++ {
		if !b.Chromosome.Gene(i) || b.Age < r.AgingThresholds[i] {
			continue
		}
		if rng.Float64() < r.BaseDeathProbability {
			return true
		}
	}
	return false
}
