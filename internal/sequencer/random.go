package sequencer

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Random is the randomness source for rework loops and feedback-driven
// stage selection. Implementations must be safe for concurrent use when a
// Planner is shared between sessions.
type Random interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). n must be positive.
	IntN(n int) int
}

// LockedRand is a seedable Random guarded by a mutex.
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a LockedRand. A zero seed seeds from the clock.
func NewRandom(seed uint64) *LockedRand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &LockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Float64 implements Random.
func (r *LockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

// IntN implements Random.
func (r *LockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
