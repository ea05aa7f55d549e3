package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orchard/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Year           int
	Population     int
	Trees          int
	Apples         int
	Births         int
	Deaths         int
	AvgAge         float64
	FPS            int32
	YearsPerSecond float32
	Paused         bool
	Finished       bool
	LastEvent      string // Most recent bookmark, empty if none
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText("Orchard", 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Year: %d | Blobs: %d | Trees: %d | Apples: %d", data.Year, data.Population, data.Trees, data.Apples),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Births: %d | Deaths: %d | Avg age: %.1f", data.Births, data.Deaths, data.AvgAge),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Speed: %.1f y/s | FPS: %d", data.YearsPerSecond, data.FPS),
		10, 75, 16, rl.LightGray,
	)

	status := "Running"
	switch {
	case data.Finished:
		status = "FINISHED"
	case data.Paused:
		status = "PAUSED"
	}
	rl.DrawText(status, 10, 95, 16, rl.Yellow)
	if data.LastEvent != "" {
		rl.DrawText(data.LastEvent, 10, 115, 14, rl.SkyBlue)
	}
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders per-phase year timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	const width = 260
	r := p.renderer
	height := int32(len(telemetry.Phases))*(r.Theme.LineHeight+2) + 2*r.Theme.LineHeight + 2*r.Theme.Padding
	r.DrawPanel(p.x, p.y, width, height)

	x, y := p.x+r.Theme.Padding, p.y+r.Theme.Padding
	y = r.DrawSectionHeader(x, y, "Year Performance")
	y = r.DrawLabelValue(x, y, "Avg year", stats.AvgYear.Round(time.Microsecond).String())

	// Share of the year spent in each phase
	for _, phase := range telemetry.Phases {
		y = r.DrawBar(x, y, phase.String(), float32(stats.Phase[phase].Pct), 100, width-2*r.Theme.Padding)
	}
}
