package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/orchard/telemetry"
)

// Layer is one stacked band of a bar chart.
type Layer struct {
	Label  string
	Color  rl.Color
	Values []float64
}

// StackedSeries is a per-year stacked bar chart.
type StackedSeries struct {
	Years  []int
	Layers []Layer
}

// Chart colours.
var (
	ColorOriginal   = rl.Color{R: 70, G: 110, B: 220, A: 255}
	ColorNewborn    = rl.Color{R: 80, G: 190, B: 90, A: 255}
	ColorDead       = rl.Color{R: 210, G: 60, B: 60, A: 255}
	ColorStarvation = rl.Color{R: 210, G: 60, B: 60, A: 255}
	ColorOldAge     = rl.Color{R: 240, G: 150, B: 40, A: 255}
	ColorInitial    = rl.Color{R: 120, G: 120, B: 200, A: 255}
	ColorFinal      = rl.Color{R: 220, G: 90, B: 70, A: 255}
)

// Tail returns at most the last n records.
func Tail(records []telemetry.YearStats, n int) []telemetry.YearStats {
	if n <= 0 {
		return nil
	}
	if len(records) > n {
		return records[len(records)-n:]
	}
	return records
}

// PopulationSeries stacks original and newborn survivors with cumulative deaths on top.
func PopulationSeries(records []telemetry.YearStats) StackedSeries {
	s := StackedSeries{
		Years: make([]int, len(records)),
		Layers: []Layer{
			{Label: "original", Color: ColorOriginal, Values: make([]float64, len(records))},
			{Label: "newborns", Color: ColorNewborn, Values: make([]float64, len(records))},
			{Label: "dead", Color: ColorDead, Values: make([]float64, len(records))},
		},
	}
	for i, r := range records {
		s.Years[i] = r.Year
		s.Layers[0].Values[i] = float64(r.AliveOriginal)
		s.Layers[1].Values[i] = float64(r.AliveNewborns)
		s.Layers[2].Values[i] = float64(r.CumulativeDeaths)
	}
	return s
}

// DeathCauseSeries stacks starvation deaths under old-age deaths.
func DeathCauseSeries(records []telemetry.YearStats) StackedSeries {
	s := StackedSeries{
		Years: make([]int, len(records)),
		Layers: []Layer{
			{Label: "starvation", Color: ColorStarvation, Values: make([]float64, len(records))},
			{Label: "old age", Color: ColorOldAge, Values: make([]float64, len(records))},
		},
	}
	for i, r := range records {
		s.Years[i] = r.Year
		s.Layers[0].Values[i] = float64(r.DeadFromStarvation)
		s.Layers[1].Values[i] = float64(r.DeadFromOldAge)
	}
	return s
}

// Max returns the tallest column total.
func (s StackedSeries) Max() float64 {
	var best float64
	for i := range s.Years {
		var sum float64
		for _, l := range s.Layers {
			sum += l.Values[i]
		}
		if sum > best {
			best = sum
		}
	}
	return best
}

// GeneBar holds one gene's initial and final prevalence in percent.
type GeneBar struct {
	Gene    int
	Initial float64
	Final   float64
}

// GeneBars converts gene reports into bars. Report shares are already percent.
func GeneBars(reports []telemetry.GeneReport) []GeneBar {
	out := make([]GeneBar, len(reports))
	for i, r := range reports {
		out[i] = GeneBar{Gene: r.Gene, Initial: r.InitialShare, Final: r.FinalShare}
	}
	return out
}

// ChartPanel draws the run charts in a column.
type ChartPanel struct {
	renderer *Renderer
}

// NewChartPanel creates a chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{renderer: NewRenderer()}
}

// DrawStacked draws a stacked bar chart with a legend and returns the Y below it.
func (c *ChartPanel) DrawStacked(x, y, width, height int32, title string, s StackedSeries) int32 {
	r := c.renderer
	r.DrawPanel(x, y, width, height)
	rl.DrawText(title, x+6, y+4, r.Theme.HeaderFontSize, r.Theme.SectionHeader)

	top := max(s.Max(), 1)
	rl.DrawText(fmt.Sprintf("%.0f", top), x+width-50, y+4, r.Theme.FontSize, r.Theme.LabelColor)

	plotX := x + 6
	plotY := y + 22
	plotW := width - 12
	plotH := height - 40
	n := int32(len(s.Years))
	if n > 0 {
		barW := max(float32(plotW)/float32(n), 1)
		for i := range s.Years {
			base := float32(plotY + plotH)
			bx := float32(plotX) + float32(i)*barW
			for _, l := range s.Layers {
				h := float32(l.Values[i]/top) * float32(plotH)
				base -= h
				rl.DrawRectangleRec(rl.NewRectangle(bx, base, barW, h), l.Color)
			}
		}
	}

	lx := plotX
	for _, l := range s.Layers {
		rl.DrawRectangle(lx, y+height-14, 8, 8, l.Color)
		rl.DrawText(l.Label, lx+12, y+height-16, r.Theme.FontSize, r.Theme.LabelColor)
		lx += 12 + rl.MeasureText(l.Label, r.Theme.FontSize) + 10
	}
	return y + height + 4
}

// DrawGeneBars draws initial against final gene prevalence on a 0-100% axis.
func (c *ChartPanel) DrawGeneBars(x, y, width, height int32, bars []GeneBar) int32 {
	r := c.renderer
	r.DrawPanel(x, y, width, height)
	rl.DrawText("Gene prevalence %", x+6, y+4, r.Theme.HeaderFontSize, r.Theme.SectionHeader)

	plotX := x + 6
	plotY := y + 22
	plotW := width - 12
	plotH := height - 40
	if len(bars) > 0 {
		slot := float32(plotW) / float32(len(bars))
		bw := max(slot/2-1, 1)
		for i, b := range bars {
			sx := float32(plotX) + float32(i)*slot
			ih := float32(b.Initial/100) * float32(plotH)
			fh := float32(b.Final/100) * float32(plotH)
			rl.DrawRectangleRec(rl.NewRectangle(sx, float32(plotY+plotH)-ih, bw, ih), ColorInitial)
			rl.DrawRectangleRec(rl.NewRectangle(sx+bw, float32(plotY+plotH)-fh, bw, fh), ColorFinal)
			rl.DrawText(fmt.Sprint(b.Gene), int32(sx+bw/2), plotY+plotH+2, 10, r.Theme.LabelColor)
		}
	}
	rl.DrawRectangle(x+width-110, y+6, 8, 8, ColorInitial)
	rl.DrawText("initial", x+width-98, y+4, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+width-55, y+6, 8, 8, ColorFinal)
	rl.DrawText("now", x+width-43, y+4, r.Theme.FontSize, r.Theme.LabelColor)
	return y + height + 4
}

// DrawDeathProbability draws the share of deaths at each age.
func (c *ChartPanel) DrawDeathProbability(x, y, width, height int32, probs []telemetry.AgeProbability) int32 {
	r := c.renderer
	r.DrawPanel(x, y, width, height)
	rl.DrawText("Death probability by age", x+6, y+4, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	if len(probs) == 0 {
		return y + height + 4
	}

	var top float64
	for _, p := range probs {
		top = max(top, p.Probability)
	}
	maxAge := probs[len(probs)-1].Age

	plotX := x + 6
	plotY := y + 22
	plotW := width - 12
	plotH := height - 40
	barW := max(float32(plotW)/float32(maxAge+1), 1)
	for _, p := range probs {
		h := float32(p.Probability/top) * float32(plotH)
		rl.DrawRectangleRec(rl.NewRectangle(float32(plotX)+float32(p.Age)*barW, float32(plotY+plotH)-h, barW, h), ColorDead)
	}
	rl.DrawText("0", plotX, plotY+plotH+2, 10, r.Theme.LabelColor)
	rl.DrawText(fmt.Sprintf("%d y", maxAge), x+width-40, plotY+plotH+2, 10, r.Theme.LabelColor)
	return y + height + 4
}
