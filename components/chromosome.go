package components

import "strings"

// ControlGene is the chromosome index reserved as a non-lethal control.
// Aging checks start at index 1.
const ControlGene = 0

// Chromosome is a fixed-length bit vector of up to 64 aging genes.
type Chromosome struct {
	bits uint64
	n    uint8
}

// NewChromosome returns a chromosome of n genes, all off.
// n must be in [1, 64]; the config layer enforces this.
func NewChromosome(n int) Chromosome {
	return Chromosome{n: uint8(n)}
}

// ChromosomeFromBools builds a chromosome from explicit gene values.
func ChromosomeFromBools(genes ...bool) Chromosome {
	c := NewChromosome(len(genes))
	for i, on := range genes {
		c.Set(i, on)
	}
	return c
}

// Len returns the number of genes.
func (c Chromosome) Len() int {
	return int(c.n)
}

// Gene reports whether gene i is on.
func (c Chromosome) Gene(i int) bool {
	return c.bits&(1<<uint(i)) != 0
}

// Set switches gene i on or off.
func (c *Chromosome) Set(i int, on bool) {
	if on {
		c.bits |= 1 << uint(i)
	} else {
		c.bits &^= 1 << uint(i)
	}
}

// Bits returns the raw gene mask (bit i = gene i).
func (c Chromosome) Bits() uint64 {
	return c.bits
}

// String renders the genes as 0/1 characters, gene 0 first.
func (c Chromosome) String() string {
	var sb strings.Builder
	sb.Grow(c.Len())
	for i := 0; i < c.Len(); i++ {
		if c.Gene(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
