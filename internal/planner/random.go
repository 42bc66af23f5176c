package planner

import (
	"math/rand"
	"sync"
	"time"
)

// Rand is the random source the selector samples finalists with.
type Rand interface {
	Intn(n int) int
}

// lockedRand makes a *rand.Rand safe to share between concurrent builds.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewLockedRand returns a goroutine-safe source. A zero seed seeds from the clock.
func NewLockedRand(seed int64) Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rnd: rand.New(rand.NewSource(seed))}
}

func (r *lockedRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Intn(n)
}
