package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HoveredCell summarises the cell under the mouse.
type HoveredCell struct {
	X, Y     int
	HasTree  bool
	HasApple bool
	Blobs    int
}

// findCellAtMouse returns the cell under the mouse cursor, if any.
func (v *Viewer) findCellAtMouse() (HoveredCell, bool) {
	mouse := rl.GetMousePosition()
	x, y, ok := v.camera.CellAt(mouse.X, mouse.Y)
	if !ok {
		return HoveredCell{}, false
	}
	return v.describeCell(x, y), true
}

// describeCell counts what stands on cell (x, y).
func (v *Viewer) describeCell(x, y int) HoveredCell {
	h := HoveredCell{X: x, Y: y}
	if t, ok := v.world.Grid().TreeAt(x, y); ok {
		h.HasTree = true
		h.HasApple = t.HasApple
	}
	for _, b := range v.world.Blobs() {
		if b.X == x && b.Y == y {
			h.Blobs++
		}
	}
	return h
}

// String renders the tooltip text.
func (h HoveredCell) String() string {
	ground := "ground"
	if h.HasApple {
		ground = "tree with apple"
	} else if h.HasTree {
		ground = "tree"
	}
	return fmt.Sprintf("(%d, %d) %s, %d blobs", h.X, h.Y, ground, h.Blobs)
}

// drawTooltip shows the hovered cell next to the cursor.
func (v *Viewer) drawTooltip() {
	if v.inspector.ContainsPoint(rl.GetMousePosition().X, rl.GetMousePosition().Y) {
		return
	}
	cell, ok := v.findCellAtMouse()
	if !ok {
		return
	}
	text := cell.String()
	mouse := rl.GetMousePosition()
	w := rl.MeasureText(text, 12) + 10
	x := int32(mouse.X) + 14
	y := int32(mouse.Y) + 14
	rl.DrawRectangle(x, y, w, 20, rl.Color{R: 20, G: 20, B: 25, A: 220})
	rl.DrawText(text, x+5, y+4, 12, rl.RayWhite)
}
