package core

import (
	"testing"
	"time"
)

func TestRealClockNow(t *testing.T) {
	clk := RealClock{}
	if clk.Now().IsZero() {
		t.Fatalf("expected non-zero time")
	}
}

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := NewFakeClock(start)

	if !clk.Now().Equal(start) {
		t.Fatalf("expected start time")
	}

	clk.Advance(1500 * time.Millisecond)
	want := start.Add(1500 * time.Millisecond)
	if !clk.Now().Equal(want) {
		t.Fatalf("expected %v got %v", want, clk.Now())
	}
}

func TestFixedRandCycles(t *testing.T) {
	r := NewFixedRand(0.1, 0.9)
	got := []float64{r.Float64(), r.Float64(), r.Float64()}
	want := []float64{0.1, 0.9, 0.1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("value %d = %v, want %v", i, got[i], want[i])
		}
	}

	if n := NewFixedRand(0.99).Intn(7); n != 6 {
		t.Errorf("Intn(7) with 0.99 = %d, want 6", n)
	}
}

func TestFixedRandIntnBounds(t *testing.T) {
	tests := []struct {
		value float64
		n     int
		want  int
	}{
		{0, 5, 0},
		{1, 5, 4},
		{-0.5, 5, 0},
		{0.5, 4, 2},
		{0.5, 0, 0},
	}
	for _, tt := range tests {
		if got := NewFixedRand(tt.value).Intn(tt.n); got != tt.want {
			t.Errorf("Intn(%d) with %v = %d, want %d", tt.n, tt.value, got, tt.want)
		}
	}
}

func TestChanceEdges(t *testing.T) {
	r := NewFixedRand(0.5)
	if Chance(r, 0) {
		t.Error("Chance(0) must never succeed")
	}
	if !Chance(r, 1) {
		t.Error("Chance(1) must always succeed")
	}
	if r.pos != 0 {
		t.Error("edge probabilities should not consume a roll")
	}
	if !Chance(r, 0.6) {
		t.Error("0.5 < 0.6 should succeed")
	}
}

func TestSeededRandDeterminism(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 50; i++ {
		if a.Float64() != b.Float64() {
			t.Fatalf("seeded sources diverged at %d", i)
		}
	}
}
