// Package rng provides the seedable random source used by turn resolution.
//
// Battles own their randomness: every battle carries a seed in its ruleset,
// and each turn derives an independent deterministic stream from
// (seed, turnIndex). Re-resolving a persisted turn therefore reproduces the
// original draws exactly, without carrying PRNG state across restarts.
package rng

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

// Provider is the random capability injected into turn resolution.
type Provider interface {
	// NextDecimal draws a uniform value in [min, max).
	NextDecimal(min, max float64) float64
}

type source struct {
	r *rand.Rand
}

func (s *source) NextDecimal(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.r.Float64()*(max-min)
}

// NewSeeded returns a provider over a plain seeded stream.
func NewSeeded(seed int64) Provider {
	return &source{r: rand.New(rand.NewSource(seed))}
}

// ForTurn returns the deterministic draw stream for one turn of one battle.
// The mix constant is the 64-bit golden ratio used by splitmix64; it spreads
// consecutive turn indexes across the seed space.
func ForTurn(seed int64, turnIndex int) Provider {
	mixed := seed ^ (int64(turnIndex)+1)*-0x61c8864680b583eb
	return NewSeeded(mixed)
}

// NewSeed generates a high-entropy battle seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
