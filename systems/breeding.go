package systems

import (
	"math/rand"

	"github.com/pthm-cable/orchard/components"
)

// CanReproduce reports whether a and b may produce a child this year.
// Both must be mature, within MaxDistance (Manhattan), and out of cooldown.
// The cooldown only enforces a minimum spacing between births.
func CanReproduce(a, b *components.Blob, year int, r *Rules) bool {
	if a.Age < r.MinAge || b.Age < r.MinAge {
		return false
	}
	if manhattan(a.X, a.Y, b.X, b.Y) > r.MaxDistance {
		return false
	}
	return cooledDown(a, year, r) && cooledDown(b, year, r)
}

func cooledDown(b *components.Blob, year int, r *Rules) bool {
	return b.LastReproductionYear+r.Cooldown <= year
}

// Reproduce creates a child of a and b. Each gene is copied from one parent
// chosen with equal probability, independently per gene. The child starts
// at a's position with age 0 and BirthEnergy. ID is left for the caller.
func Reproduce(a, b *components.Blob, r *Rules, rng *rand.Rand) *components.Blob {
	n := a.Chromosome.Len()
	chrom := components.NewChromosome(n)
	for i := 0; i < n; i++ {
		if rng.Intn(2) == 0 {
			chrom.Set(i, a.Chromosome.Gene(i))
		} else {
			chrom.Set(i, b.Chromosome.Gene(i))
		}
	}
	return &components.Blob{
		X:                    a.X,
		Y:                    a.Y,
		Age:                  0,
		Energy:               r.BirthEnergy,
		LastReproductionYear: components.NeverReproduced,
		Chromosome:           chrom,
	}
}

// Pairing is one successful match from a pairing pass.
type Pairing struct {
	A, B  *components.Blob
	Child *components.Blob
}

// PairingPass runs the year's reproduction over pop.
//
// Pairs (i, j) with i < j are examined strictly in slice order. A match
// produces a child and sets both parents' LastReproductionYear to year before
// the next pair is looked at, so a parent matched earlier in the pass is out
// of cooldown for every later pair. Outcomes therefore depend on pop's order,
// and this pass must stay sequential to be reproducible.
func PairingPass(pop []*components.Blob, year int, r *Rules, rng *rand.Rand) []Pairing {
	var out []Pairing
	for i := 0; i < len(pop); i++ {
		a := pop[i]
		for j := i + 1; j < len(pop); j++ {
			// Once a is in cooldown it stays there for the rest of the pass.
			if !cooledDown(a, year, r) || a.Age < r.MinAge {
				break
			}
			b := pop[j]
			if !CanReproduce(a, b, year, r) {
				continue
			}
			child := Reproduce(a, b, r, rng)
			a.LastReproductionYear = year
			b.LastReproductionYear = year
			out = append(out, Pairing{A: a, B: b, Child: child})
		}
	}
	return out
}
