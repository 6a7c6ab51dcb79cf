package usecase

import "impulsescan/internal/domain/models"

// CountImpulses counts the start indexes that begin a short-horizon spike:
// for every i in [0, len(bars)-window), the window starting at i qualifies
// when max(high[i:i+window]) rose by at least threshold (a fraction,
// 0.05 = 5%) over the window's own opening price. Overlapping windows each
// count, so a single sustained rally spanning many bars inflates the count;
// that measures "how many sub-windows contain a qualifying run-up", not
// distinct events. Sequences with no valid start index yield 0. A zero
// opening price cannot be divided by, so that start index is skipped.
func CountImpulses(bars []models.Candle, window int, threshold float64) int {
	if window <= 0 {
		return 0
	}
	count := 0
	for i := 0; i < len(bars)-window; i++ {
		if impulseAt(bars, i, window, threshold) {
			count++
		}
	}
	return count
}

// CountDistinctImpulses counts non-overlapping spike events: after a window
// qualifies, the scan resumes past it, so one sustained rally counts once.
// This is a separate, explicitly chosen mode; the overlapping count above is
// the default behavior.
func CountDistinctImpulses(bars []models.Candle, window int, threshold float64) int {
	if window <= 0 {
		return 0
	}
	count := 0
	for i := 0; i < len(bars)-window; {
		if impulseAt(bars, i, window, threshold) {
			count++
			i += window
			continue
		}
		i++
	}
	return count
}

func impulseAt(bars []models.Candle, i, window int, threshold float64) bool {
	open := bars[i].Open
	if open == 0 {
		return false
	}
	maxHigh := bars[i].High
	for _, b := range bars[i+1 : i+window] {
		if b.High > maxHigh {
			maxHigh = b.High
		}
	}
	return (maxHigh-open)/open >= threshold
}
