package game

import (
	"github.com/pthm-cable/orchard/components"
)

// spawnInitialPopulation creates the starting blobs, then plants the trees.
func (w *World) spawnInitialPopulation() {
	for i := 0; i < w.cfg.World.NumBlobs; i++ {
		w.pop = append(w.pop, w.spawnBlob())
	}

	if overwritten := w.grid.Plant(w.cfg.World.NumTrees, w.rng); overwritten > 0 {
		w.logger.Debug("trees planted on occupied cells",
			"requested", w.cfg.World.NumTrees,
			"overwritten", overwritten,
			"trees", w.grid.TreeCount(),
		)
	}
}

// spawnBlob creates a blob at a uniform random cell with a random chromosome.
func (w *World) spawnBlob() *components.Blob {
	size := w.grid.Size()
	b := &components.Blob{
		ID:                   w.nextBlobID(),
		X:                    w.rng.Intn(size),
		Y:                    w.rng.Intn(size),
		Energy:               w.cfg.Energy.InitialEnergy,
		LastReproductionYear: components.NeverReproduced,
		Chromosome:           components.NewChromosome(w.cfg.Genetics.NumGenes),
	}
	for i := 0; i < b.Chromosome.Len(); i++ {
		b.Chromosome.Set(i, w.rng.Intn(2) == 1)
	}
	return b
}

func (w *World) nextBlobID() uint64 {
	w.nextID++
	return w.nextID
}
