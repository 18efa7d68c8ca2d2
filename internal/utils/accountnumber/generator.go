// Package accountnumber produces candidate account numbers in the format
// YYMM-XXXX-XXXX: a two-digit year, a two-digit month, and two independent
// four-digit random segments.
//
// The generator is a probabilistic candidate source, not a uniqueness oracle.
// Collision handling belongs to the caller: check existence against the persisted
// uniqueness constraint and retry with a fresh candidate, bounded.
package accountnumber

import (
	"fmt"
	"math/rand"
	"time"
)

const datePartLayout = "0601" // two-digit year followed by two-digit month

// Generator produces candidate account numbers. It carries no state between calls
// beyond its clock and random source, so it is safe for concurrent use as long as
// the injected intn is (the default, the global math/rand source, is).
type Generator struct {
	now  func() time.Time
	intn func(n int) int
}

// New returns a Generator backed by the wall clock and the global random source.
func New() *Generator {
	return &Generator{now: time.Now, intn: rand.Intn}
}

// NewWithSource returns a Generator with an injected clock and random int source.
// Tests use this to make generation deterministic.
func NewWithSource(now func() time.Time, intn func(n int) int) *Generator {
	return &Generator{now: now, intn: intn}
}

// Generate returns a fresh candidate account number.
func (g *Generator) Generate() string {
	datePart := g.now().Format(datePartLayout)
	part1 := 1000 + g.intn(9000) // always four digits
	part2 := 1000 + g.intn(9000)
	return fmt.Sprintf("%s-%04d-%04d", datePart, part1, part2)
}
