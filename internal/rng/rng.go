// Package rng provides the injectable random source used by the simulation
// and evolution pipelines.
//
// Production code seeds a math/rand generator from crypto/rand; tests inject
// a scripted source so stochastic branches can be asserted exactly.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

// Source is the contract every stochastic decision draws from.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// Intn returns a value in [0, n). It panics if n <= 0.
	Intn(n int) int
}

type mathSource struct {
	r *rand.Rand
}

// New returns a Source seeded with high-entropy bytes from crypto/rand.
func New() Source {
	return NewSeeded(newSeed())
}

// NewSeeded returns a deterministic Source for a fixed seed.
func NewSeeded(seed int64) Source {
	return &mathSource{r: rand.New(rand.NewSource(seed))}
}

func (s *mathSource) Float64() float64 { return s.r.Float64() }
func (s *mathSource) Intn(n int) int   { return s.r.Intn(n) }

func newSeed() int64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// Zero seed keeps the generator usable even if the entropy pool fails.
		return 0
	}
	return int64(binary.LittleEndian.Uint64(b[:]))
}

// Range returns a uniform value in [min, max].
func Range(src Source, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + src.Float64()*(max-min)
}

// IntRange returns a uniform integer in [min, max].
func IntRange(src Source, min, max int) int {
	if max <= min {
		return min
	}
	return min + src.Intn(max-min+1)
}

// Chance reports whether a roll lands under probability p.
func Chance(src Source, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return src.Float64() < p
}

// WeightedIndex picks an index with probability proportional to its weight.
// Non-positive weights are skipped; it returns -1 when no weight is positive.
func WeightedIndex(src Source, weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	roll := src.Float64() * total
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		roll -= w
		if roll < 0 {
			return i
		}
	}
	// Float drift can leave roll at ~0; fall back to the last positive weight.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}
