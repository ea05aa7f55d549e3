package game

import (
	"sort"
	"time"
)

// Render pass names.
const (
	passGrid   = "grid"
	passBlobs  = "blobs"
	passCharts = "charts"
	passUI     = "ui"
)

// renderTimings keeps a rolling window of durations per render pass.
type renderTimings struct {
	samples    map[string][]time.Duration
	maxSamples int
}

func newRenderTimings() *renderTimings {
	return &renderTimings{
		samples:    make(map[string][]time.Duration),
		maxSamples: 120, // ~2 seconds of samples at 60fps
	}
}

// Record adds a duration sample for the named pass.
func (p *renderTimings) Record(name string, d time.Duration) {
	p.samples[name] = append(p.samples[name], d)
	if len(p.samples[name]) > p.maxSamples {
		p.samples[name] = p.samples[name][1:]
	}
}

// Avg returns the average duration for the named pass.
func (p *renderTimings) Avg(name string) time.Duration {
	s := p.samples[name]
	if len(s) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range s {
		total += d
	}
	return total / time.Duration(len(s))
}

// Total returns the sum of all average durations.
func (p *renderTimings) Total() time.Duration {
	var total time.Duration
	for name := range p.samples {
		total += p.Avg(name)
	}
	return total
}

// SortedNames returns pass names sorted by average duration, slowest first.
func (p *renderTimings) SortedNames() []string {
	names := make([]string, 0, len(p.samples))
	for name := range p.samples {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return p.Avg(names[i]) > p.Avg(names[j])
	})
	return names
}

// time runs fn and records its duration under name.
func (p *renderTimings) time(name string, fn func()) {
	start := time.Now()
	fn()
	p.Record(name, time.Since(start))
}
