// Package renderer draws the grid and its occupants with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orchard/components"
	"github.com/pthm-cable/orchard/systems"
)

// Palette colours shared by the grid texture and the viewer.
var (
	GroundColor = color.RGBA{R: 28, G: 34, B: 24, A: 255}
	TreeColor   = color.RGBA{R: 46, G: 110, B: 52, A: 255}
	AppleColor  = color.RGBA{R: 214, G: 58, B: 44, A: 255}
	BlobColor   = color.RGBA{R: 240, G: 220, B: 120, A: 255}
	ChildColor  = color.RGBA{R: 120, G: 200, B: 240, A: 255}
)

// FillGridPixels writes one pixel per cell, row-major, into buf.
// buf must hold size*size colours.
func FillGridPixels(g *systems.Grid, buf []color.RGBA, showApples bool) {
	size := g.Size()
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := g.Cell(x, y)
			px := GroundColor
			if c.Kind == components.CellTree {
				px = TreeColor
				if showApples && c.Tree.HasApple {
					px = AppleColor
				}
			}
			buf[y*size+x] = px
		}
	}
}

// GridRenderer keeps a texture with one texel per cell and refreshes it
// when the grid changes.
type GridRenderer struct {
	size        int
	pixels      []color.RGBA
	texture     rl.Texture2D
	initialized bool
}

// NewGridRenderer creates a renderer for a grid of the given size.
func NewGridRenderer(size int) *GridRenderer {
	return &GridRenderer{
		size:   size,
		pixels: make([]color.RGBA, size*size),
	}
}

// Init creates the texture (must be called after the raylib window exists).
func (r *GridRenderer) Init() {
	if r.initialized {
		return
	}
	img := rl.GenImageColor(r.size, r.size, GroundColor)
	r.texture = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	rl.SetTextureFilter(r.texture, rl.FilterPoint)
	r.initialized = true
}

// Update uploads the current grid state.
func (r *GridRenderer) Update(g *systems.Grid, showApples bool) {
	if !r.initialized {
		r.Init()
	}
	FillGridPixels(g, r.pixels, showApples)
	rl.UpdateTexture(r.texture, r.pixels)
}

// Draw renders the grid so that cell (0,0) lands at (originX, originY)
// with each cell cellPx pixels wide.
func (r *GridRenderer) Draw(originX, originY, cellPx float32) {
	if !r.initialized {
		return
	}
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(r.size), Height: float32(r.size)}
	dst := rl.Rectangle{X: originX, Y: originY, Width: float32(r.size) * cellPx, Height: float32(r.size) * cellPx}
	rl.DrawTexturePro(r.texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees resources.
func (r *GridRenderer) Unload() {
	if r.initialized {
		rl.UnloadTexture(r.texture)
		r.initialized = false
	}
}
