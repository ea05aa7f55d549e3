package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Widget colors
var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	ColorBarLow  = rl.Color{R: 180, G: 80, B: 80, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	ColorBoolOn  = rl.Color{R: 100, G: 200, B: 100, A: 255}
	ColorBoolOff = rl.Color{R: 80, G: 80, B: 80, A: 255}
	ColorGeneOn  = rl.Color{R: 220, G: 90, B: 70, A: 255}
	ColorGeneOff = rl.Color{R: 60, G: 60, B: 70, A: 255}
)

// DrawLabel renders a text value.
func DrawLabel(x, y int32, field Field) int32 {
	rl.DrawText(fmt.Sprintf("%s: %s", field.Name, field.Format()), x, y, 14, ColorText)
	return 18
}

// DrawBar renders a horizontal progress bar. Values past max fill the bar.
func DrawBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := value / GetMax(options)
	if ratio > 1 {
		ratio = 1
	}
	if ratio < 0 {
		ratio = 0
	}

	barWidth := int32(120)
	barHeight := int32(14)

	rl.DrawText(name, x, y, 14, ColorTextDim)

	barX := x + 90
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	fillColor := ColorBarFill
	if ratio < 0.3 {
		fillColor = ColorBarLow
	}
	rl.DrawRectangle(barX, y, int32(float32(barWidth)*ratio), barHeight, fillColor)
	rl.DrawText(fmt.Sprintf("%.0f", value), barX+barWidth+5, y, 14, ColorTextDim)

	return 18
}

// DrawBool renders an on/off indicator.
func DrawBool(x, y int32, name string, value bool) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	indicatorX := x + 90
	indicatorSize := int32(14)

	color := ColorBoolOff
	text := "NO"
	if value {
		color = ColorBoolOn
		text = "YES"
	}
	rl.DrawRectangle(indicatorX, y, indicatorSize, indicatorSize, color)
	rl.DrawText(text, indicatorX+indicatorSize+5, y, 14, color)

	return 18
}

// DrawGenes renders one square per gene. Gene 0 is outlined as the control gene.
func DrawGenes(x, y int32, name string, genes GeneSet) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)

	size := int32(12)
	gx := x + 90
	for i := 0; i < genes.Len(); i++ {
		color := ColorGeneOff
		if genes.Gene(i) {
			color = ColorGeneOn
		}
		cx := gx + int32(i)*(size+3)
		rl.DrawRectangle(cx, y+1, size, size, color)
		if i == 0 {
			rl.DrawRectangleLines(cx-1, y, size+2, size+2, ColorTextDim)
		}
	}
	return 18
}

// DrawField renders a field using its widget type.
func DrawField(x, y int32, field Field) int32 {
	switch field.Widget {
	case WidgetBar:
		if v, ok := GetFloatValue(field.Value); ok {
			return DrawBar(x, y, field.Name, v, field.Options)
		}
	case WidgetBool:
		if v, ok := field.Value.(bool); ok {
			return DrawBool(x, y, field.Name, v)
		}
	case WidgetGenes:
		if gs, ok := field.Value.(GeneSet); ok {
			return DrawGenes(x, y, field.Name, gs)
		}
	case WidgetSkip:
		return 0
	}
	return DrawLabel(x, y, field)
}
