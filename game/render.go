package game

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orchard/ui"
)

var backgroundColor = rl.Color{R: 12, G: 14, B: 12, A: 255}

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(backgroundColor)

	v.timings.time(passGrid, v.drawGrid)
	v.drawWorldOverlays()

	if v.overlays.IsEnabled(ui.OverlayInspector) {
		if x, y, ok := v.inspector.Selected(); ok {
			sx, sy := v.camera.WorldToScreen(float32(x), float32(y))
			v.inspector.DrawSelectionHighlight(sx, sy, v.camera.Zoom)
		}
	}

	v.timings.time(passCharts, v.drawPanels)
	v.timings.time(passUI, v.drawUI)

	rl.EndDrawing()
}

// drawGrid refreshes the grid texture when the world or the apple layer
// changed and draws it through the camera.
func (v *Viewer) drawGrid() {
	showApples := v.overlays.IsEnabled(ui.OverlayApples)
	if v.gridDirty || showApples != v.applesShown {
		v.gridRenderer.Update(v.world.Grid(), showApples)
		v.gridDirty = false
		v.applesShown = showApples
	}
	ox, oy := v.camera.WorldToScreen(0, 0)
	v.gridRenderer.Draw(ox, oy, v.camera.Zoom)
}

// drawUI renders the HUD, controls, inspector and tooltip.
func (v *Viewer) drawUI() {
	grid := v.world.Grid()
	data := ui.HUDData{
		Year:           v.world.Year(),
		Population:     v.world.PopulationSize(),
		Trees:          grid.TreeCount(),
		Apples:         grid.AppleCount(),
		Births:         v.world.TotalBirths(),
		FPS:            rl.GetFPS(),
		YearsPerSecond: v.state.YearsPerSecond,
		Paused:         v.state.Paused,
		Finished:       v.finished,
	}
	if last, ok := v.world.LastStats(); ok {
		data.Deaths = last.CumulativeDeaths
		data.AvgAge = last.AvgAgeAlive
	}
	if mark, ok := v.world.LastBookmark(); ok {
		data.LastEvent = fmt.Sprintf("Year %d: %s", mark.Year, mark.Description)
	}
	v.hud.Draw(data)

	v.state = v.controls.Draw(v.state, v.overlays)

	if v.showPerf {
		y := int32(v.screenHeight) - 230
		v.perfPanel.SetPosition(10, y)
		v.perfPanel.Draw(v.world.Perf())
		v.drawRenderTimings(10, y+150)
	}

	if v.overlays.IsEnabled(ui.OverlayInspector) {
		if sel, ok := v.inspector.Resolve(v.world.Grid(), v.world.Blobs()); ok {
			v.inspector.Draw(sel)
		}
	}

	v.drawTooltip()
	v.hud.DrawControls(int32(v.screenHeight),
		"SPACE pause | S step | ,/. speed | arrows/wheel camera | HOME fit | H controls | P perf | A/B/N/C/G/I overlays")
}

func (v *Viewer) drawRenderTimings(x, y int32) {
	for _, name := range v.timings.SortedNames() {
		rl.DrawText(fmt.Sprintf("render %-8s %6s", name, v.timings.Avg(name)), x, y, 12, rl.LightGray)
		y += 14
	}
}
