package systems

import "github.com/pthm-cable/orchard/components"

// Eat consumes the apple under the blob, if any, and adds gain to its energy.
// Returns whether an apple was eaten.
func Eat(b *components.Blob, g *Grid, gain int) bool {
	if !g.ConsumeApple(b.X, b.Y) {
		return false
	}
	b.Energy += gain
	return true
}
