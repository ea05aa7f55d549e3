package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/orchard/components"
)

// MeanAge returns the average age of blobs, or 0 for an empty group.
func MeanAge(blobs []*components.Blob) float64 {
	if len(blobs) == 0 {
		return 0
	}
	ages := make([]float64, len(blobs))
	for i, b := range blobs {
		ages[i] = float64(b.Age)
	}
	return stat.Mean(ages, nil)
}

// CountGenes returns, for each gene index, how many blobs carry it switched on.
func CountGenes(blobs []*components.Blob, numGenes int) []int {
	counts := make([]int, numGenes)
	for _, b := range blobs {
		for i := 0; i < numGenes; i++ {
			if b.Chromosome.Gene(i) {
				counts[i]++
			}
		}
	}
	return counts
}

// GeneShares converts gene counts into the percentage of a population of
// size total carrying each gene. An empty population yields all zeros.
func GeneShares(counts []int, total int) []float64 {
	shares := make([]float64, len(counts))
	if total <= 0 {
		return shares
	}
	for i, c := range counts {
		shares[i] = float64(c)
	}
	floats.Scale(100/float64(total), shares)
	return shares
}

// ExtractDeathAges flattens the death ages of every record, in year order.
func ExtractDeathAges(records []YearStats) []int {
	var ages []int
	for _, r := range records {
		ages = append(ages, r.DeathAges...)
	}
	return ages
}

// AgeProbability is the share of all deaths that happened at Age.
type AgeProbability struct {
	Age         int     `csv:"age" json:"age"`
	Deaths      int     `csv:"deaths" json:"deaths"`
	Probability float64 `csv:"probability" json:"probability"`
}

// DeathProbability returns the normalised death distribution by age,
// sorted by age. Returns nil when there are no deaths.
func DeathProbability(deathAges []int) []AgeProbability {
	if len(deathAges) == 0 {
		return nil
	}

	counts := make(map[int]int)
	for _, a := range deathAges {
		counts[a]++
	}
	ages := make([]int, 0, len(counts))
	for a := range counts {
		ages = append(ages, a)
	}
	sort.Ints(ages)

	weights := make([]float64, len(ages))
	for i, a := range ages {
		weights[i] = float64(counts[a])
	}
	floats.Scale(1/floats.Sum(weights), weights)

	out := make([]AgeProbability, len(ages))
	for i, a := range ages {
		out[i] = AgeProbability{Age: a, Deaths: counts[a], Probability: weights[i]}
	}
	return out
}

// GeneReport compares gene prevalence at the start and end of a run.
type GeneReport struct {
	Gene         int     `csv:"gene" json:"gene"`
	InitialCount int     `csv:"initial_count" json:"initial_count"`
	InitialShare float64 `csv:"initial_share" json:"initial_share"`
	FinalCount   int     `csv:"final_count" json:"final_count"`
	FinalShare   float64 `csv:"final_share" json:"final_share"`
}

// CompareGenes builds one GeneReport row per gene.
func CompareGenes(initial []int, initialTotal int, final []int, finalTotal int) []GeneReport {
	initialShares := GeneShares(initial, initialTotal)
	finalShares := GeneShares(final, finalTotal)
	out := make([]GeneReport, len(initial))
	for i := range initial {
		out[i] = GeneReport{
			Gene:         i,
			InitialCount: initial[i],
			InitialShare: initialShares[i],
		}
		if i < len(final) {
			out[i].FinalCount = final[i]
			out[i].FinalShare = finalShares[i]
		}
	}
	return out
}
