package engine

import "math/rand"

// RNG wraps math/rand.Rand with deterministic position tracking. Every
// method consumes exactly one Int63 from the source, so Position counts
// source draws and RestoreRNG can replay them exactly.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

func (r *RNG) next() int64 {
	r.pos++
	return r.src.Int63()
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	if sides < 1 {
		sides = 1
	}
	return int(r.next()%int64(sides)) + 1
}

// Float returns a uniform value in [0, 1).
func (r *RNG) Float() float64 {
	return float64(r.next()) / (1 << 63)
}

// Chance returns true with probability p. p >= 1 always succeeds,
// p <= 0 never does. A draw is consumed either way so call sequences
// stay aligned across save/restore.
func (r *RNG) Chance(p float64) bool {
	v := r.Float()
	if p >= 1 {
		return true
	}
	if p <= 0 {
		return false
	}
	return v < p
}

// WeightedIndex returns an index chosen by weighted random draw: a uniform
// value in [0, total) is walked through the cumulative weights and the first
// index whose cumulative weight exceeds the draw wins. Ties resolve by slice
// order. Returns -1 when no weight is positive.
func (r *RNG) WeightedIndex(weights []float64) int {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	draw := r.Float() * total
	var cumulative float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		if draw < cumulative {
			return i
		}
	}
	// Floating-point tail: land on the last positive weight.
	for i := len(weights) - 1; i >= 0; i-- {
		if weights[i] > 0 {
			return i
		}
	}
	return -1
}

// Position returns the number of source draws made since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// RestoreRNG creates an RNG and advances it to the given position.
// This reproduces the exact RNG state for save/load.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}
