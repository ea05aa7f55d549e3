package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orchard/renderer"
	"github.com/pthm-cable/orchard/ui"
)

// handleOverlayKeys drains the key queue and toggles bound overlays.
func (v *Viewer) handleOverlayKeys() {
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, enabled, ok := v.overlays.HandleKeyPress(key); ok {
			v.logger.Debug("overlay toggled", "overlay", id, "enabled", enabled)
		}
	}
}

// drawWorldOverlays renders the enabled layers on top of the grid.
func (v *Viewer) drawWorldOverlays() {
	if v.overlays.IsEnabled(ui.OverlayBlobs) {
		v.timings.time(passBlobs, v.drawBlobs)
	}
}

// drawBlobs draws every visible blob as a square on its cell. With the
// newborn overlay on, blobs born during the run get their own colour.
func (v *Viewer) drawBlobs() {
	x0, y0, x1, y1 := v.camera.VisibleCells()
	cellPx := max(v.camera.Zoom, 1)
	inset := float32(0)
	if cellPx >= 4 {
		inset = cellPx * 0.2
	}
	highlight := v.overlays.IsEnabled(ui.OverlayNewborns)
	year := v.world.Year()

	for _, b := range v.world.Blobs() {
		if b.X < x0 || b.X > x1 || b.Y < y0 || b.Y > y1 {
			continue
		}
		color := renderer.BlobColor
		if highlight && b.Age < year {
			color = renderer.ChildColor
		}
		sx, sy := v.camera.WorldToScreen(float32(b.X), float32(b.Y))
		rl.DrawRectangleRec(rl.Rectangle{X: sx + inset, Y: sy + inset, Width: cellPx - 2*inset, Height: cellPx - 2*inset}, color)
	}
}

// drawPanels renders the enabled panels on the right of the screen.
func (v *Viewer) drawPanels() {
	const chartW, chartH = 340, 130

	right := int32(v.screenWidth) - 10
	if v.overlays.IsEnabled(ui.OverlayInspector) {
		if _, _, ok := v.inspector.Selected(); ok {
			right -= 320 + 10
		}
	}
	x := right - chartW
	y := int32(10)

	if v.overlays.IsEnabled(ui.OverlayCharts) {
		recent := ui.Tail(v.world.Stats(), chartYears)
		y = v.charts.DrawStacked(x, y, chartW, chartH, "Population", ui.PopulationSeries(recent))
		y = v.charts.DrawStacked(x, y, chartW, chartH, "Deaths by cause", ui.DeathCauseSeries(recent))
		y = v.charts.DrawDeathProbability(x, y, chartW, chartH, v.deathProbs)
	}
	if v.overlays.IsEnabled(ui.OverlayGenes) {
		v.charts.DrawGeneBars(x, y, chartW, chartH, v.geneBars)
	}
}
