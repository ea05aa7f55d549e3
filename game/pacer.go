package game

// maxYearsPerFrame bounds catch-up after a stall so one frame never
// blocks the window for long.
const maxYearsPerFrame = 8

// pacer converts frame time into whole simulated years.
type pacer struct {
	acc float64
}

// due adds dt seconds at yearsPerSecond and returns the years to step now.
func (p *pacer) due(dt, yearsPerSecond float64) int {
	if yearsPerSecond <= 0 || dt <= 0 {
		return 0
	}
	p.acc += dt * yearsPerSecond
	n := int(p.acc)
	p.acc -= float64(n)
	if n > maxYearsPerFrame {
		n = maxYearsPerFrame
		p.acc = 0
	}
	return n
}

func (p *pacer) reset() {
	p.acc = 0
}
