package systems

import (
	"testing"

	"github.com/pthm-cable/orchard/components"
)

func TestGridPlantCountsOverwrites(t *testing.T) {
	g := NewGrid(1)
	overwritten := g.Plant(5, newRNG(1))

	// A 1x1 grid forces every planting after the first onto the same cell
	if overwritten != 4 {
		t.Errorf("overwritten = %d, want 4", overwritten)
	}
	if g.TreeCount() != 1 {
		t.Errorf("TreeCount = %d, want 1", g.TreeCount())
	}
}

func TestGridPlantAtResetsApple(t *testing.T) {
	g := NewGrid(3)
	if g.PlantAt(1, 2) {
		t.Fatal("first planting reported an overwrite")
	}
	g.GrowApples(1, newRNG(1))
	if tree, _ := g.TreeAt(1, 2); !tree.HasApple {
		t.Fatal("expected apple after p=1 growth")
	}
	if !g.PlantAt(1, 2) {
		t.Error("second planting did not report an overwrite")
	}
	if tree, ok := g.TreeAt(1, 2); !ok || tree.HasApple {
		t.Errorf("replanted tree = %+v ok=%v, want fresh tree", tree, ok)
	}
	if g.TreeCount() != 1 {
		t.Errorf("TreeCount = %d, want 1", g.TreeCount())
	}
}

func TestGridPlantWithinBounds(t *testing.T) {
	g := NewGrid(7)
	g.Plant(200, newRNG(3))
	count := 0
	g.ForEachTree(func(x, y int, _ components.Tree) {
		if x < 0 || x >= 7 || y < 0 || y >= 7 {
			t.Fatalf("tree at (%d,%d) outside grid", x, y)
		}
		if c := g.Cell(x, y); c.Kind != components.CellTree {
			t.Fatalf("roster cell (%d,%d) has kind %d", x, y, c.Kind)
		}
		count++
	})
	if count != g.TreeCount() {
		t.Errorf("ForEachTree visited %d, TreeCount %d", count, g.TreeCount())
	}
}

func TestGrowApplesProbabilityBounds(t *testing.T) {
	tests := []struct {
		name string
		p    float64
		want int
	}{
		{"never", 0, 0},
		{"always", 1, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid(3)
			for x := 0; x < 3; x++ {
				for y := 0; y < 3; y++ {
					g.PlantAt(x, y)
				}
			}
			g.GrowApples(tt.p, newRNG(5))
			if got := g.AppleCount(); got != tt.want {
				t.Errorf("AppleCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGrowApplesKeepsExistingApple(t *testing.T) {
	g := NewGrid(2)
	g.PlantAt(0, 0)
	g.GrowApples(1, newRNG(1))
	g.GrowApples(0, newRNG(1))
	if tree, _ := g.TreeAt(0, 0); !tree.HasApple {
		t.Error("apple disappeared after a p=0 growth round")
	}
}

func TestConsumeApple(t *testing.T) {
	g := NewGrid(2)
	if g.ConsumeApple(0, 0) {
		t.Error("consumed apple from empty cell")
	}
	g.PlantAt(0, 0)
	if g.ConsumeApple(0, 0) {
		t.Error("consumed apple from bare tree")
	}
	g.GrowApples(1, newRNG(1))
	if !g.ConsumeApple(0, 0) {
		t.Fatal("failed to consume grown apple")
	}
	if g.ConsumeApple(0, 0) {
		t.Error("apple consumed twice")
	}
}

func TestTreeAtEmpty(t *testing.T) {
	g := NewGrid(4)
	if _, ok := g.TreeAt(3, 3); ok {
		t.Error("empty cell reported a tree")
	}
}
