package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Speed slider bounds in simulated years per second.
const (
	MinYearsPerSecond = 0.5
	MaxYearsPerSecond = 60
)

// ControlsState is what the controls panel reports back each frame.
type ControlsState struct {
	Paused         bool
	StepRequested  bool
	ResetView      bool
	YearsPerSecond float32
}

// ControlsPanel renders the playback controls and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Height returns the panel height for the given registry.
func (c *ControlsPanel) Height(overlays *OverlayRegistry) int32 {
	r := c.renderer
	rows := int32(len(overlays.All()) + len(overlays.Categories()))
	return r.Theme.Padding*3 + r.Theme.LineHeight*(rows+1) + 60
}

// Draw renders the panel and returns the updated state.
// Clicking an overlay row toggles it.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlsState {
	state.StepRequested = false
	state.ResetView = false
	if !c.visible {
		return state
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight
	inner := c.width - padding*2

	r.DrawPanel(c.x, c.y, c.width, c.Height(overlays))
	y := c.y + padding

	bw := float32(inner-8) / 3
	bx := float32(c.x + padding)
	label := "Pause"
	if state.Paused {
		label = "Play"
	}
	if gui.Button(rl.NewRectangle(bx, float32(y), bw, 22), label) {
		state.Paused = !state.Paused
	}
	if gui.Button(rl.NewRectangle(bx+bw+4, float32(y), bw, 22), "Step") {
		state.StepRequested = true
	}
	if gui.Button(rl.NewRectangle(bx+2*(bw+4), float32(y), bw, 22), "Fit") {
		state.ResetView = true
	}
	y += 28

	state.YearsPerSecond = gui.SliderBar(
		rl.NewRectangle(float32(c.x+padding+40), float32(y), float32(inner-90), 16),
		"Speed", fmt.Sprintf("%.1f y/s", state.YearsPerSecond),
		state.YearsPerSecond, MinYearsPerSecond, MaxYearsPerSecond,
	)
	y += 26

	for _, category := range overlays.Categories() {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			row := rl.NewRectangle(float32(c.x+padding), float32(y), float32(inner), float32(lineHeight))
			if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && rl.CheckCollisionPointRec(rl.GetMousePosition(), row) {
				overlays.Toggle(desc.ID)
			}
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), inner)
			y += lineHeight
		}
		y += 4
	}
	return state
}

// Contains reports whether a screen point falls on the panel.
func (c *ControlsPanel) Contains(x, y float32, overlays *OverlayRegistry) bool {
	if !c.visible {
		return false
	}
	rect := rl.NewRectangle(float32(c.x), float32(c.y), float32(c.width), float32(c.Height(overlays)))
	return rl.CheckCollisionPointRec(rl.NewVector2(x, y), rect)
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "layers":
		return "Layers"
	case "panels":
		return "Panels"
	default:
		return cat
	}
}
