package outfit

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the randomness consumed by the selectors.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRand returns a goroutine-safe source seeded deterministically.
func NewRand(seed uint64) Rand {
	return &lockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func newTimeSeededRand() Rand {
	return NewRand(uint64(time.Now().UnixNano()))
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
