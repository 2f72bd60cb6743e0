package pacer

import (
	"math/rand"
	"testing"
	"time"
)

func TestWaitWithinBounds(t *testing.T) {
	min := 100 * time.Millisecond
	max := 500 * time.Millisecond

	p := NewWithRand(min, max, rand.New(rand.NewSource(42)))

	var slept []time.Duration
	p.sleep = func(d time.Duration) { slept = append(slept, d) }

	for i := 0; i < 100; i++ {
		p.Wait()
	}

	if len(slept) != 100 {
		t.Fatalf("expected 100 sleeps, got %d", len(slept))
	}
	for _, d := range slept {
		if d < min || d > max {
			t.Errorf("sleep %v outside [%v, %v]", d, min, max)
		}
	}
}

func TestWaitDeterministicWithSeed(t *testing.T) {
	record := func() []time.Duration {
		p := NewWithRand(time.Millisecond, time.Second, rand.New(rand.NewSource(7)))
		var slept []time.Duration
		p.sleep = func(d time.Duration) { slept = append(slept, d) }
		for i := 0; i < 10; i++ {
			p.Wait()
		}
		return slept
	}

	first := record()
	second := record()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("same seed produced different delays at %d: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestWaitEqualBounds(t *testing.T) {
	p := NewWithRand(50*time.Millisecond, 50*time.Millisecond, rand.New(rand.NewSource(1)))

	var slept time.Duration
	p.sleep = func(d time.Duration) { slept = d }
	p.Wait()

	if slept != 50*time.Millisecond {
		t.Errorf("expected exactly 50ms, got %v", slept)
	}
}

func TestWaitZeroBounds(t *testing.T) {
	p := NewWithRand(0, 0, rand.New(rand.NewSource(1)))

	var slept time.Duration
	p.sleep = func(d time.Duration) { slept = d }
	p.Wait()

	if slept != 0 {
		t.Errorf("expected zero delay, got %v", slept)
	}
}
