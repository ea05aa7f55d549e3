package telemetry

import (
	"reflect"
	"testing"

	"github.com/pthm-cable/orchard/components"
)

func blobAged(age int) *components.Blob {
	return &components.Blob{Age: age, Chromosome: components.NewChromosome(4)}
}

func TestCollectorRecord(t *testing.T) {
	c := NewCollector()

	// Year 2: survivors from creation are age 3; newborns are younger.
	pop := []*components.Blob{blobAged(3), blobAged(3), blobAged(1), blobAged(0)}
	starved := []*components.Blob{blobAged(3), blobAged(2)}
	agedOut := []*components.Blob{blobAged(3)}

	got := c.Record(YearInput{
		Year:             2,
		Population:       pop,
		Starved:          starved,
		AgedOut:          agedOut,
		Born:             1,
		CumulativeBirths: 2,
	})

	want := YearStats{
		Year:                 2,
		AliveCount:           4,
		AliveOriginal:        2,
		AliveNewborns:        2,
		DeadFromStarvation:   2,
		DeadFromOldAge:       1,
		CumulativeDeaths:     3,
		BornThisYear:         1,
		CumulativeBirths:     2,
		AvgAgeAlive:          1.75,
		AvgAgeDeadStarvation: 2.5,
		AvgAgeDeadOldAge:     3,
		DeathAges:            Ages{3, 2, 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Record() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestCollectorEmptyGroupsAverageZero(t *testing.T) {
	c := NewCollector()
	got := c.Record(YearInput{Year: 0})

	if got.AvgAgeAlive != 0 || got.AvgAgeDeadStarvation != 0 || got.AvgAgeDeadOldAge != 0 {
		t.Errorf("empty groups should average 0, got %+v", got)
	}
	if got.DeathAges == nil || len(got.DeathAges) != 0 {
		t.Errorf("DeathAges = %#v, want empty non-nil", got.DeathAges)
	}
}

func TestCollectorCumulativeDeaths(t *testing.T) {
	c := NewCollector()
	deaths := []int{2, 0, 5, 1}
	want := 0
	for year, n := range deaths {
		starved := make([]*components.Blob, n)
		for i := range starved {
			starved[i] = blobAged(year + 1)
		}
		want += n
		got := c.Record(YearInput{Year: year, Starved: starved})
		if got.CumulativeDeaths != want {
			t.Errorf("year %d cumulative deaths = %d, want %d", year, got.CumulativeDeaths, want)
		}
	}

	if c.Len() != len(deaths) {
		t.Errorf("Len() = %d, want %d", c.Len(), len(deaths))
	}
	last, ok := c.Last()
	if !ok || last.Year != 3 {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
}

func TestCollectorRecordsIsCopy(t *testing.T) {
	c := NewCollector()
	c.Record(YearInput{Year: 0})
	recs := c.Records()
	recs[0].Year = 99
	if c.Records()[0].Year != 0 {
		t.Error("Records() exposes internal history")
	}
}

func TestCollectorDeathAgesAreCopied(t *testing.T) {
	c := NewCollector()
	c.Record(YearInput{Year: 0, Starved: []*components.Blob{{Age: 4}}})

	recs := c.Records()
	recs[0].DeathAges[0] = 99
	if c.Records()[0].DeathAges[0] != 4 {
		t.Error("Records() shares death_ages with the history")
	}
	last, _ := c.Last()
	last.DeathAges[0] = 77
	if got, _ := c.Last(); got.DeathAges[0] != 4 {
		t.Error("Last() shares death_ages with the history")
	}
}
