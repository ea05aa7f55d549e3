package systems

import (
	"testing"

	"github.com/pthm-cable/orchard/components"
)

// ---------- Step basic behavior ----------

func TestStep_AgeAndEnergyCost(t *testing.T) {
	r := testRules(5)
	g := NewGrid(5)
	b := newBlob(2, 2, 7, 10, allGenes(10, false)...)

	out := Step(b, g, r, newRNG(1))

	if out != components.Alive {
		t.Fatalf("outcome = %v, want alive", out)
	}
	if b.Age != 8 {
		t.Errorf("age = %d, want 8", b.Age)
	}
	if b.Energy != 10-r.EnergyLossPerStep {
		t.Errorf("energy = %d, want %d", b.Energy, 10-r.EnergyLossPerStep)
	}
}

func TestStep_EatsAppleAfterMoving(t *testing.T) {
	r := testRules(1)
	g := NewGrid(1)
	g.PlantAt(0, 0)
	g.GrowApples(1, newRNG(1))
	b := newBlob(0, 0, 0, 5, allGenes(10, false)...)

	Step(b, g, r, newRNG(2))

	want := 5 + r.AppleEnergyGain - r.EnergyLossPerStep
	if b.Energy != want {
		t.Errorf("energy = %d, want %d", b.Energy, want)
	}
	if tree, _ := g.TreeAt(0, 0); tree.HasApple {
		t.Error("apple not consumed")
	}
}

func TestStep_StarvationSkipsGenes(t *testing.T) {
	r := testRules(3)
	r.BaseDeathProbability = 1
	g := NewGrid(3)

	// Every gene on and every threshold passed: aging would certainly fire
	b := newBlob(1, 1, 500, 1, allGenes(10, true)...)
	if out := Step(b, g, r, newRNG(1)); out != components.Starved {
		t.Errorf("outcome = %v, want starvation", out)
	}

	b = newBlob(1, 1, 500, 0, allGenes(10, true)...)
	if out := Step(b, g, r, newRNG(1)); out != components.Starved {
		t.Errorf("outcome with negative energy = %v, want starvation", out)
	}
}

func TestStep_StarvationDrawsNoGeneTrials(t *testing.T) {
	r := testRules(3)
	r.BaseDeathProbability = 0.5
	g := NewGrid(3)

	// Two identical rngs: one consumed only by the starving step
	rngA, rngB := newRNG(9), newRNG(9)
	b := newBlob(1, 1, 500, 1, allGenes(10, true)...)
	Step(b, g, r, rngA)

	// Reproduce the draws Step should have made: only the move
	rngB.Intn(4)
	if rngA.Int63() != rngB.Int63() {
		t.Error("starved step consumed extra random draws")
	}
}

func TestAgingDeath(t *testing.T) {
	tests := []struct {
		name  string
		age   int
		genes []bool
		prob  float64
		want  bool
	}{
		{"control gene never kills", 1000, append([]bool{true}, allGenes(9, false)...), 1, false},
		{"below threshold", 9, allGenes(10, true), 1, false},
		{"gene 1 at threshold", 10, []bool{false, true, false, false, false, false, false, false, false, false}, 1, true},
		{"gene off past threshold", 95, allGenes(10, false), 1, false},
		{"gene 9 needs age 90", 89, []bool{false, false, false, false, false, false, false, false, false, true}, 1, false},
		{"gene 9 at 90", 90, []bool{false, false, false, false, false, false, false, false, false, true}, 1, true},
		{"zero probability", 1000, allGenes(10, true), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := testRules(3)
			r.BaseDeathProbability = tt.prob
			b := newBlob(0, 0, tt.age, 10, tt.genes...)
			if got := AgingDeath(b, r, newRNG(1)); got != tt.want {
				t.Errorf("AgingDeath = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAgingDeath_StopsAtFirstFiringGene(t *testing.T) {
	r := testRules(3)
	r.BaseDeathProbability = 1
	rng := newRNG(4)
	ref := newRNG(4)

	b := newBlob(0, 0, 100, 10, allGenes(10, true)...)
	if !AgingDeath(b, r, rng) {
		t.Fatal("expected death")
	}
	// Exactly one Float64 draw for gene 1
	ref.Float64()
	if rng.Int63() != ref.Int63() {
		t.Error("scan continued after the first firing gene")
	}
}

func TestAgingDeath_RollsEachEligibleGene(t *testing.T) {
	r := testRules(3)
	r.BaseDeathProbability = 0
	rng := newRNG(6)
	ref := newRNG(6)

	// Genes 1, 2, 3 eligible at age 35; gene 4 is on but below its threshold
	b := newBlob(0, 0, 35, 10, false, true, true, true, true, false, false, false, false, false)
	if AgingDeath(b, r, rng) {
		t.Fatal("p=0 killed a blob")
	}
	for i := 0; i < 3; i++ {
		ref.Float64()
	}
	if rng.Int63() != ref.Int63() {
		t.Error("expected exactly three trials for three eligible genes")
	}
}

func TestAgingDeath_Rate(t *testing.T) {
	r := testRules(3)
	r.BaseDeathProbability = 0.02
	rng := newRNG(8)

	// One eligible gene: death rate should be close to the base probability
	genes := []bool{false, true, false, false, false, false, false, false, false, false}
	deaths := 0
	const trials = 50000
	for i := 0; i < trials; i++ {
		b := newBlob(0, 0, 20, 10, genes...)
		if AgingDeath(b, r, rng) {
			deaths++
		}
	}
	rate := float64(deaths) / trials
	if rate < 0.015 || rate > 0.025 {
		t.Errorf("death rate = %.4f, want ~0.02", rate)
	}
}
