package usecase

import (
	"testing"

	"impulsescan/internal/domain/models"
)

func flatBars(n int, price float64) []models.Candle {
	bars := make([]models.Candle, n)
	for i := range bars {
		bars[i] = models.Candle{
			OpenTime: int64(i) * 60_000,
			Open:     price,
			High:     price,
			Low:      price,
			Close:    price,
		}
	}
	return bars
}

func TestCountImpulsesShortSequence(t *testing.T) {
	if got := CountImpulses(flatBars(5, 100), 10, 0.05); got != 0 {
		t.Fatalf("expected 0 for sequence shorter than window, got %d", got)
	}
	if got := CountImpulses(nil, 10, 0.05); got != 0 {
		t.Fatalf("expected 0 for empty sequence, got %d", got)
	}
	// Exactly window bars leaves no valid start index either.
	if got := CountImpulses(flatBars(10, 100), 10, 0.05); got != 0 {
		t.Fatalf("expected 0 for len == window, got %d", got)
	}
}

func TestCountImpulsesFlatDay(t *testing.T) {
	if got := CountImpulses(flatBars(200, 100), 10, 0.05); got != 0 {
		t.Fatalf("flat prices must produce no impulses, got %d", got)
	}
}

func TestCountImpulsesUpperBound(t *testing.T) {
	// Every window qualifies: highs are double the opens.
	bars := flatBars(15, 100)
	for i := range bars {
		bars[i].High = 200
	}
	got := CountImpulses(bars, 10, 0.05)
	if got != len(bars)-10 {
		t.Fatalf("expected count == len-window == %d, got %d", len(bars)-10, got)
	}
}

func TestCountImpulsesSingleSpike(t *testing.T) {
	// One tall bar in the middle; every window containing it qualifies.
	bars := flatBars(12, 1.00)
	bars[5].High = 1.20
	got := CountImpulses(bars, 10, 0.05)
	if got != 2 {
		t.Fatalf("expected both start indexes covering the spike, got %d", got)
	}
}

func TestCountImpulsesRisingWindow(t *testing.T) {
	// Gradual climb: window 0 opens at 1.00 and sees a high of 1.06.
	bars := flatBars(11, 0)
	for i := range bars {
		open := 1.00 + float64(i)*0.01
		bars[i].Open = open
		bars[i].High = open + 0.01
		bars[i].Close = open + 0.01
	}
	if got := CountImpulses(bars, 10, 0.05); got < 1 {
		t.Fatalf("expected at least one qualifying window, got %d", got)
	}
}

func TestCountImpulsesZeroOpenSkipped(t *testing.T) {
	bars := flatBars(12, 100)
	bars[0].Open = 0
	bars[0].High = 500 // would divide by zero without the guard
	if got := CountImpulses(bars, 10, 0.05); got != 0 {
		t.Fatalf("zero-open start index must be skipped, got %d", got)
	}
}

func TestCountDistinctImpulsesSuppressesOverlap(t *testing.T) {
	// Sustained rally: every one of the 15 overlapping windows qualifies,
	// but only two non-overlapping events fit in 25 bars.
	bars := flatBars(25, 100)
	for i := range bars {
		bars[i].High = 200
	}
	if got := CountImpulses(bars, 10, 0.05); got != 15 {
		t.Fatalf("overlapping count should be 15, got %d", got)
	}
	if got := CountDistinctImpulses(bars, 10, 0.05); got != 2 {
		t.Fatalf("distinct count should be 2, got %d", got)
	}
}
