package components

// Tree is a stationary apple producer. Its position is the index of the cell
// that holds it.
type Tree struct {
	HasApple bool `inspect:"bool"`
}

// CellKind tags what a grid cell holds.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellTree
)

// Cell is one grid slot: either empty or holding exactly one tree.
// Tree is meaningful only when Kind == CellTree.
type Cell struct {
	Kind CellKind
	Tree Tree
}

// HasTree reports whether the cell is occupied.
func (c *Cell) HasTree() bool {
	return c.Kind == CellTree
}
