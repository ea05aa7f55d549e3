package inspector

import (
	"fmt"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orchard/components"
)

// Panel dimensions
const (
	PanelWidth   = 320
	PanelPadding = 10
	HeaderHeight = 30

	// maxListed caps how many blobs on one cell get a full field block.
	maxListed = 4
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorCloseBtn    = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// CellSource is the grid view the inspector reads.
type CellSource interface {
	Size() int
	Cell(x, y int) components.Cell
}

// Selection is everything found on the selected cell.
type Selection struct {
	X, Y  int
	Cell  components.Cell
	Blobs []*components.Blob // sorted by ID
}

// Inspector manages cell selection and panel rendering.
type Inspector struct {
	x, y        int
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize moves the panel to the right edge of the screen.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// Select marks a grid cell as selected.
func (ins *Inspector) Select(x, y int) {
	ins.x, ins.y = x, y
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the currently selected cell.
func (ins *Inspector) Selected() (x, y int, ok bool) {
	return ins.x, ins.y, ins.hasSelected
}

// HandleInput processes clicks. cellAt maps a screen point to a grid cell.
func (ins *Inspector) HandleInput(mouseX, mouseY float32, cellAt func(sx, sy float32) (int, int, bool)) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) || rl.IsKeyPressed(rl.KeyEscape) {
		ins.Deselect()
		return
	}
	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}

	if ins.hasSelected {
		closeX := ins.panelX + PanelWidth - 25
		closeY := ins.panelY + 5
		if int32(mouseX) >= closeX && int32(mouseX) <= closeX+20 &&
			int32(mouseY) >= closeY && int32(mouseY) <= closeY+20 {
			ins.Deselect()
			return
		}
		if ins.ContainsPoint(mouseX, mouseY) {
			return
		}
	}

	if x, y, ok := cellAt(mouseX, mouseY); ok {
		ins.Select(x, y)
	}
}

// ContainsPoint reports whether a screen point is over the open panel.
func (ins *Inspector) ContainsPoint(mouseX, mouseY float32) bool {
	return ins.hasSelected &&
		int32(mouseX) >= ins.panelX && int32(mouseX) <= ins.panelX+PanelWidth &&
		int32(mouseY) >= ins.panelY
}

// Resolve gathers the selected cell's tree and blobs.
// It returns false when nothing is selected or the cell is off the grid.
func (ins *Inspector) Resolve(grid CellSource, pop []*components.Blob) (Selection, bool) {
	if !ins.hasSelected {
		return Selection{}, false
	}
	return Inspect(grid, pop, ins.x, ins.y)
}

// Inspect gathers the contents of cell (x, y).
func Inspect(grid CellSource, pop []*components.Blob, x, y int) (Selection, bool) {
	if x < 0 || y < 0 || x >= grid.Size() || y >= grid.Size() {
		return Selection{}, false
	}
	sel := Selection{X: x, Y: y, Cell: grid.Cell(x, y)}
	for _, b := range pop {
		if b.X == x && b.Y == y {
			sel.Blobs = append(sel.Blobs, b)
		}
	}
	sort.Slice(sel.Blobs, func(i, j int) bool { return sel.Blobs[i].ID < sel.Blobs[j].ID })
	return sel, true
}

// Draw renders the inspector panel for a resolved selection.
func (ins *Inspector) Draw(sel Selection) {
	if !ins.hasSelected {
		return
	}

	panelHeight := calculatePanelHeight(sel)
	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, panelHeight, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(panelHeight)},
		1,
		ColorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("CELL (%d, %d)", sel.X, sel.Y), ins.panelX+PanelPadding, ins.panelY+7, 16, ColorHeaderText)

	closeX := ins.panelX + PanelWidth - 25
	closeY := ins.panelY + 5
	rl.DrawRectangle(closeX, closeY, 20, 20, ColorCloseBtn)
	rl.DrawText("X", closeX+6, closeY+3, 14, rl.White)

	y := ins.panelY + HeaderHeight + PanelPadding
	x := ins.panelX + PanelPadding

	ins.drawSectionHeader(x, y, "TREE")
	y += 20
	if sel.Cell.HasTree() {
		for _, f := range ExtractFields(&sel.Cell.Tree) {
			y += DrawField(x, y, f)
		}
	} else {
		rl.DrawText("(empty ground)", x, y, 12, ColorTextDim)
		y += 16
	}

	y += 4
	ins.drawSectionHeader(x, y, fmt.Sprintf("BLOBS (%d)", len(sel.Blobs)))
	y += 20
	for i, b := range sel.Blobs {
		if i == maxListed {
			rl.DrawText(fmt.Sprintf("... and %d more", len(sel.Blobs)-maxListed), x, y, 12, ColorTextDim)
			break
		}
		for _, f := range ExtractFields(b) {
			y += DrawField(x, y, f)
		}
		rl.DrawLine(x, y+2, ins.panelX+PanelWidth-PanelPadding, y+2, ColorPanelBorder)
		y += 8
	}
}

func (ins *Inspector) drawSectionHeader(x, y int32, title string) {
	rl.DrawRectangle(x-2, y-2, PanelWidth-2*PanelPadding+4, 18, ColorSection)
	rl.DrawText(title, x+2, y, 14, ColorSectionText)
}

// calculatePanelHeight computes the dynamic panel height.
func calculatePanelHeight(sel Selection) int32 {
	height := HeaderHeight + PanelPadding
	height += 20 + 18 // tree header and field
	height += 4 + 20  // blobs header

	listed := min(len(sel.Blobs), maxListed)
	height += listed * (7*18 + 8)
	if len(sel.Blobs) > maxListed {
		height += 16
	}
	return int32(height + PanelPadding)
}

// DrawSelectionHighlight outlines the selected cell at screen position (sx, sy).
func (ins *Inspector) DrawSelectionHighlight(sx, sy, cellPx float32) {
	if !ins.hasSelected {
		return
	}
	pad := max(cellPx*0.25, 2)
	rl.DrawRectangleLinesEx(rl.Rectangle{X: sx - pad, Y: sy - pad, Width: cellPx + 2*pad, Height: cellPx + 2*pad}, 2, rl.Yellow)
}
