package systems

import (
	"math/rand"

	"github.com/pthm-cable/orchard/components"
	"github.com/pthm-cable/orchard/config"
)

// testRules returns the default rules with a small grid.
func testRules(size int) *Rules {
	cfg := config.Default()
	cfg.World.GridSize = size
	return NewRules(cfg)
}

func newRNG(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func newBlob(x, y, age, energy int, genes ...bool) *components.Blob {
	chrom := components.ChromosomeFromBools(genes...)
	if len(genes) == 0 {
		chrom = components.NewChromosome(10)
	}
	return &components.Blob{
		X:                    x,
		Y:                    y,
		Age:                  age,
		Energy:               energy,
		LastReproductionYear: components.NeverReproduced,
		Chromosome:           chrom,
	}
}

// allGenes returns n genes with the given state.
func allGenes(n int, on bool) []bool {
	g := make([]bool, n)
	for i := range g {
		g[i] = on
	}
	return g
}
