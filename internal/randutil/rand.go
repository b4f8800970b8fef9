// Package randutil builds reproducible random sources for the simple input
// mode, where a concrete rank is drawn from the group the user entered.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG source seeded deterministically from seed. Both PCG
// words are run through a splitmix64 finalizer so nearby seeds diverge.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// NewUnseeded returns a source seeded from the wall clock
func NewUnseeded() *rand.Rand {
	return New(time.Now().UnixNano())
}

// Pick returns a uniformly chosen element. It panics on an empty slice.
func Pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.IntN(len(items))]
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
