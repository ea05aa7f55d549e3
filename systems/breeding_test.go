package systems

import (
	"testing"

	"github.com/pthm-cable/orchard/components"
)

func TestCanReproduce(t *testing.T) {
	r := testRules(20) // min age 15, distance 2, cooldown 3
	const year = 10

	tests := []struct {
		name string
		a, b *components.Blob
		want bool
	}{
		{"eligible same cell", newBlob(3, 3, 15, 5), newBlob(3, 3, 15, 5), true},
		{"eligible at max distance", newBlob(3, 3, 20, 5), newBlob(4, 4, 20, 5), true},
		{"too far", newBlob(3, 3, 20, 5), newBlob(5, 4, 20, 5), false},
		{"a too young", newBlob(3, 3, 14, 5), newBlob(3, 3, 20, 5), false},
		{"b too young", newBlob(3, 3, 20, 5), newBlob(3, 3, 14, 5), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanReproduce(tt.a, tt.b, year, r); got != tt.want {
				t.Errorf("CanReproduce = %v, want %v", got, tt.want)
			}
			if got := CanReproduce(tt.b, tt.a, year, r); got != tt.want {
				t.Errorf("CanReproduce is not symmetric")
			}
		})
	}
}

func TestCanReproduceCooldownIsMinimumOnly(t *testing.T) {
	r := testRules(20)
	a := newBlob(0, 0, 30, 5)
	b := newBlob(0, 0, 30, 5)

	a.LastReproductionYear = 10
	if CanReproduce(a, b, 12, r) {
		t.Error("reproduced inside cooldown")
	}
	if !CanReproduce(a, b, 13, r) {
		t.Error("cooldown not satisfied at last+cooldown")
	}
	// No upper bound on the spacing
	if !CanReproduce(a, b, 1000, r) {
		t.Error("long gap blocked reproduction")
	}
}

func TestReproduceInheritance(t *testing.T) {
	r := testRules(20)
	rng := newRNG(21)
	a := newBlob(4, 7, 30, 2, true, true, false, false, true, false, true, false, true, true)
	b := newBlob(5, 7, 30, 2, true, false, true, false, false, false, true, true, false, true)

	sawA, sawB := false, false
	for n := 0; n < 200; n++ {
		child := Reproduce(a, b, r, rng)
		if child.Chromosome.Len() != a.Chromosome.Len() {
			t.Fatalf("child chromosome len %d", child.Chromosome.Len())
		}
		for i := 0; i < child.Chromosome.Len(); i++ {
			g := child.Chromosome.Gene(i)
			if g != a.Chromosome.Gene(i) && g != b.Chromosome.Gene(i) {
				t.Fatalf("gene %d = %v differs from both parents", i, g)
			}
		}
		// Gene 1 differs between parents: both sources should appear
		if child.Chromosome.Gene(1) {
			sawA = true
		} else {
			sawB = true
		}
		if child.X != a.X || child.Y != a.Y {
			t.Errorf("child at (%d,%d), want first parent's (%d,%d)", child.X, child.Y, a.X, a.Y)
		}
		if child.Age != 0 || child.Energy != r.BirthEnergy {
			t.Errorf("child age=%d energy=%d", child.Age, child.Energy)
		}
		if child.HasReproduced() {
			t.Error("child starts with a reproduction year")
		}
	}
	if !sawA || !sawB {
		t.Error("inheritance never picked one of the parents")
	}
}

func TestPairingPassUpdatesParentsInPlace(t *testing.T) {
	r := testRules(20)
	a := newBlob(1, 1, 20, 5)
	b := newBlob(1, 1, 20, 5)

	pairs := PairingPass([]*components.Blob{a, b}, 4, r, newRNG(1))

	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	if a.LastReproductionYear != 4 || b.LastReproductionYear != 4 {
		t.Errorf("parent years = %d, %d, want 4", a.LastReproductionYear, b.LastReproductionYear)
	}
	if pairs[0].A != a || pairs[0].B != b {
		t.Error("pairing parents out of order")
	}
}

func TestPairingPassOrderDependence(t *testing.T) {
	r := testRules(20)

	// All three within range of each other: (0,1) matches first, leaving
	// 2 without an eligible partner in the same year.
	pop := []*components.Blob{
		newBlob(2, 2, 20, 5),
		newBlob(2, 2, 20, 5),
		newBlob(2, 3, 20, 5),
	}
	pairs := PairingPass(pop, 0, r, newRNG(1))
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	if pairs[0].A != pop[0] || pairs[0].B != pop[1] {
		t.Error("expected the first enumerated pair to match")
	}
	if pop[2].HasReproduced() {
		t.Error("third blob reproduced without a partner")
	}
}

func TestPairingPassZeroCooldownAllowsMultipleChildren(t *testing.T) {
	r := testRules(20)
	r.Cooldown = 0

	pop := []*components.Blob{
		newBlob(2, 2, 20, 5),
		newBlob(2, 2, 20, 5),
		newBlob(2, 2, 20, 5),
	}
	pairs := PairingPass(pop, 0, r, newRNG(1))
	// (0,1), (0,2), (1,2)
	if len(pairs) != 3 {
		t.Errorf("pairs = %d, want 3", len(pairs))
	}
}

func TestPairingPassNeverPairsIneligible(t *testing.T) {
	r := testRules(30)
	rng := newRNG(99)

	pop := make([]*components.Blob, 0, 60)
	for i := 0; i < 60; i++ {
		b := newBlob(rng.Intn(6), rng.Intn(6), rng.Intn(30), 5)
		if i%5 == 0 {
			b.LastReproductionYear = 9
		}
		pop = append(pop, b)
	}
	type snapshot struct {
		age, x, y, last int
	}
	before := make(map[*components.Blob]snapshot, len(pop))
	for _, b := range pop {
		before[b] = snapshot{b.Age, b.X, b.Y, b.LastReproductionYear}
	}

	const year = 10
	pairs := PairingPass(pop, year, r, rng)
	if len(pairs) == 0 {
		t.Fatal("expected at least one pairing in a crowded population")
	}

	seen := make(map[*components.Blob]bool)
	for _, p := range pairs {
		if p.A == p.B {
			t.Fatal("blob paired with itself")
		}
		sa, sb := before[p.A], before[p.B]
		if sa.age < r.MinAge || sb.age < r.MinAge {
			t.Error("immature blob paired")
		}
		if manhattan(sa.x, sa.y, sb.x, sb.y) > r.MaxDistance {
			t.Error("distant blobs paired")
		}
		// With cooldown 3, each blob may breed at most once per year
		if sa.last+r.Cooldown > year || sb.last+r.Cooldown > year || seen[p.A] || seen[p.B] {
			t.Error("blob paired while in cooldown")
		}
		seen[p.A], seen[p.B] = true, true
	}
}
