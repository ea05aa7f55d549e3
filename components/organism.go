package components

import "math"

// NeverReproduced is the cooldown sentinel for blobs that have not bred yet.
// It is far enough below year 0 that no configured cooldown blocks a first
// reproduction.
const NeverReproduced = math.MinInt32

// Blob is a mobile forager. X and Y always lie in [0, grid size).
// Energy may drop to zero or below, which kills the blob on that step.
type Blob struct {
	ID                   uint64     `inspect:"label"`
	X, Y                 int        `inspect:"label"`
	Age                  int        `inspect:"label,fmt:%d y"`
	Energy               int        `inspect:"bar,max:30"`
	LastReproductionYear int        `inspect:"label,unset:-2147483648"`
	Chromosome           Chromosome `inspect:"genes"`
}

// HasReproduced reports whether the blob has parented a child.
func (b *Blob) HasReproduced() bool {
	return b.LastReproductionYear != NeverReproduced
}
