package renderer

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/pthm-cable/orchard/systems"
)

func TestFillGridPixels(t *testing.T) {
	g := systems.NewGrid(3)
	g.PlantAt(0, 0)
	g.PlantAt(2, 1)
	g.GrowApples(1, rand.New(rand.NewSource(1)))

	buf := make([]color.RGBA, 9)

	FillGridPixels(g, buf, true)
	if buf[0] != AppleColor {
		t.Errorf("cell (0,0) = %v, want apple colour", buf[0])
	}
	if buf[1*3+2] != AppleColor {
		t.Errorf("cell (2,1) = %v, want apple colour", buf[5])
	}
	if buf[4] != GroundColor {
		t.Errorf("empty cell = %v, want ground colour", buf[4])
	}

	FillGridPixels(g, buf, false)
	if buf[0] != TreeColor {
		t.Errorf("apples hidden: cell (0,0) = %v, want tree colour", buf[0])
	}
}
