// Package pacer spaces out consecutive network downloads with a
// randomized delay, so batches do not hammer a host at full speed.
package pacer

import (
	"math/rand"
	"sync"
	"time"
)

// Pacer sleeps a duration drawn uniformly from [min, max]. Callers invoke
// it only after a genuine network fetch, never on cache hits.
type Pacer struct {
	min time.Duration
	max time.Duration

	mu  sync.Mutex
	rng *rand.Rand

	// sleep is swappable in tests
	sleep func(time.Duration)
}

// New creates a Pacer with a time-seeded random source.
func New(min, max time.Duration) *Pacer {
	return NewWithRand(min, max, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithRand creates a Pacer using the supplied random source.
func NewWithRand(min, max time.Duration, rng *rand.Rand) *Pacer {
	return &Pacer{
		min:   min,
		max:   max,
		rng:   rng,
		sleep: time.Sleep,
	}
}

// Wait blocks for a duration drawn uniformly from [min, max].
func (p *Pacer) Wait() {
	p.sleep(p.next())
}

// next draws the delay for one wait.
func (p *Pacer) next() time.Duration {
	if p.max <= p.min {
		return p.min
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.min + time.Duration(p.rng.Int63n(int64(p.max-p.min)+1))
}
