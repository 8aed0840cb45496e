package duel

import (
	"math/rand"
	"sync/atomic"
	"time"
)

// Rand is the random source a duel consumes. *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

var seedSeq atomic.Int64

// NewRand returns a seeded source. Seed 0 means "seed from the clock"; sources
// created in the same instant still get distinct seeds.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano() ^ (seedSeq.Add(1) << 40)
	}
	//nolint:gosec // game mechanics, not cryptography
	return rand.New(rand.NewSource(seed))
}
