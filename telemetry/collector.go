package telemetry

import (
	"slices"

	"github.com/pthm-cable/orchard/components"
)

// Collector turns each year's partitions into a YearStats record and keeps
// the append-only history.
type Collector struct {
	records []YearStats
}

// NewCollector creates an empty stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// YearInput holds what the world knows at the end of a year.
type YearInput struct {
	Year             int
	Population       []*components.Blob // after newborns were appended
	Starved          []*components.Blob
	AgedOut          []*components.Blob
	Born             int
	CumulativeBirths int
}

// Record computes and appends the stats for one year.
//
// Blobs whose age equals year+1 are counted as original (alive since world
// creation); younger ones as newborns. The split relies on every survivor
// aging exactly once per year with years stepped consecutively from 0.
func (c *Collector) Record(in YearInput) YearStats {
	prevDeaths := 0
	if n := len(c.records); n > 0 {
		prevDeaths = c.records[n-1].CumulativeDeaths
	}

	var original, newborns int
	for _, b := range in.Population {
		switch {
		case b.Age == in.Year+1:
			original++
		case b.Age < in.Year+1:
			newborns++
		}
	}

	deathAges := make(Ages, 0, len(in.Starved)+len(in.AgedOut))
	for _, b := range in.Starved {
		deathAges = append(deathAges, b.Age)
	}
	for _, b := range in.AgedOut {
		deathAges = append(deathAges, b.Age)
	}

	stats := YearStats{
		Year:                 in.Year,
		AliveCount:           len(in.Population),
		AliveOriginal:        original,
		AliveNewborns:        newborns,
		DeadFromStarvation:   len(in.Starved),
		DeadFromOldAge:       len(in.AgedOut),
		CumulativeDeaths:     prevDeaths + len(in.Starved) + len(in.AgedOut),
		BornThisYear:         in.Born,
		CumulativeBirths:     in.CumulativeBirths,
		AvgAgeAlive:          MeanAge(in.Population),
		AvgAgeDeadStarvation: MeanAge(in.Starved),
		AvgAgeDeadOldAge:     MeanAge(in.AgedOut),
		DeathAges:            deathAges,
	}

	c.records = append(c.records, stats)
	return stats
}

// Records returns a copy of the history.
func (c *Collector) Records() []YearStats {
	out := make([]YearStats, len(c.records))
	copy(out, c.records)
	for i := range out {
		out[i].DeathAges = slices.Clone(out[i].DeathAges)
	}
	return out
}

// Len returns the number of recorded years.
func (c *Collector) Len() int {
	return len(c.records)
}

// Last returns the most recent record, if any.
func (c *Collector) Last() (YearStats, bool) {
	if len(c.records) == 0 {
		return YearStats{}, false
	}
	last := c.records[len(c.records)-1]
	last.DeathAges = slices.Clone(last.DeathAges)
	return last, true
}
