package xrtime

import (
	"math"
	"testing"
	"time"
)

func TestRoundTripSeconds(t *testing.T) {
	b := NewBase(100.0)

	want := 100.25
	xt := b.FromHostSeconds(want)
	got := b.ToHostSeconds(xt)

	if math.Abs(got-want) > 1e-6 {
		t.Errorf("round trip: got %f, want %f", got, want)
	}
}

func TestClampMonotonicAdvances(t *testing.T) {
	last := Time(1000)
	next := Time(2000)
	if got := ClampMonotonic(last, next); got != next {
		t.Errorf("ClampMonotonic(%d, %d) = %d, want %d", last, next, got, next)
	}
}

func TestClampMonotonicClampsNonIncreasing(t *testing.T) {
	last := Time(1000)
	cases := []Time{1000, 999, 0, -500}
	for _, candidate := range cases {
		got := ClampMonotonic(last, candidate)
		if got != last+1 {
			t.Errorf("ClampMonotonic(%d, %d) = %d, want %d", last, candidate, got, last+1)
		}
	}
}

func TestNowIsMonotonicallyIncreasing(t *testing.T) {
	b := NewBase(0)
	a := b.Now()
	time.Sleep(time.Millisecond)
	c := b.Now()
	if c <= a {
		t.Errorf("Now() did not advance: %d then %d", a, c)
	}
}
