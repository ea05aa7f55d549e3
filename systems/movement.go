package systems

import (
	"math/rand"

	"github.com/pthm-cable/orchard/components"
)

// directions are the four orthogonal unit steps.
var directions = [4][2]int{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Move steps the blob one cell in a uniformly chosen orthogonal direction.
// Each coordinate is clamped to [0, size) on its own, so a blob pushing into
// an edge stays where it is.
func Move(b *components.Blob, size int, rng *rand.Rand) {
	d := directions[rng.Intn(len(directions))]
	b.X = clampInt(b.X+d[0], 0, size-1)
	b.Y = clampInt(b.Y+d[1], 0, size-1)
}
