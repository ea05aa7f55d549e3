package systems

import (
	"math/rand"

	"github.com/pthm-cable/orchard/components"
)

// Grid is a dense size×size field of cells, each empty or holding one tree.
// Cells are stored row-major. Coordinates outside [0, size) are a caller bug
// and panic on the slice bounds check.
type Grid struct {
	size   int
	cells  []components.Cell
	roster []int // occupied cell indices in first-planting order
}

// NewGrid creates an empty grid.
func NewGrid(size int) *Grid {
	return &Grid{
		size:  size,
		cells: make([]components.Cell, size*size),
	}
}

// Size returns the grid edge length.
func (g *Grid) Size() int {
	return g.size
}

func (g *Grid) index(x, y int) int {
	return y*g.size + x
}

// Plant places n trees at independently drawn uniform coordinates.
// A draw that lands on an occupied cell replaces that tree with a fresh one
// (no apple); the cell still holds exactly one tree. Returns how many
// plantings overwrote an existing tree.
func (g *Grid) Plant(n int, rng *rand.Rand) int {
	overwritten := 0
	for i := 0; i < n; i++ {
		x := rng.Intn(g.size)
		y := rng.Intn(g.size)
		if g.PlantAt(x, y) {
			overwritten++
		}
	}
	return overwritten
}

// PlantAt puts a fresh tree at (x, y) and reports whether one was replaced.
func (g *Grid) PlantAt(x, y int) bool {
	idx := g.index(x, y)
	cell := &g.cells[idx]
	if cell.HasTree() {
		cell.Tree = components.Tree{}
		return true
	}
	cell.Kind = components.CellTree
	cell.Tree = components.Tree{}
	g.roster = append(g.roster, idx)
	return false
}

// GrowApples gives every empty tree one Bernoulli(p) trial to grow an apple.
// Trees already holding an apple draw nothing.
func (g *Grid) GrowApples(p float64, rng *rand.Rand) {
	for _, idx := range g.roster {
		tree := &g.cells[idx].Tree
		if !tree.HasApple {
			tree.HasApple = rng.Float64() < p
		}
	}
}

// TreeAt returns the tree at (x, y), if any.
func (g *Grid) TreeAt(x, y int) (components.Tree, bool) {
	cell := g.cells[g.index(x, y)]
	if !cell.HasTree() {
		return components.Tree{}, false
	}
	return cell.Tree, true
}

// Cell returns a copy of the cell at (x, y).
func (g *Grid) Cell(x, y int) components.Cell {
	return g.cells[g.index(x, y)]
}

// ConsumeApple takes the apple at (x, y) if there is one.
// The check and the clear happen in one call, so two blobs on the same cell
// in the same year can never both eat its apple.
func (g *Grid) ConsumeApple(x, y int) bool {
	cell := &g.cells[g.index(x, y)]
	if !cell.HasTree() || !cell.Tree.HasApple {
		return false
	}
	cell.Tree.HasApple = false
	return true
}

// TreeCount returns the number of occupied cells.
func (g *Grid) TreeCount() int {
	return len(g.roster)
}

// AppleCount returns the number of trees currently holding an apple.
func (g *Grid) AppleCount() int {
	n := 0
	for _, idx := range g.roster {
		if g.cells[idx].Tree.HasApple {
			n++
		}
	}
	return n
}

// ForEachTree calls fn for every tree in planting order.
func (g *Grid) ForEachTree(fn func(x, y int, t components.Tree)) {
	for _, idx := range g.roster {
		fn(idx%g.size, idx/g.size, g.cells[idx].Tree)
	}
}
