package repository

import (
	"context"
	"time"

	"impulsescan/internal/domain/models"
)

// MarketData is the upstream market-data provider consumed by the scan
// pipeline. Implementations must keep all window math in UTC epoch millis.
type MarketData interface {
	// Instruments resolves the tradable perpetual symbols to scan.
	// A failure here is fatal for the whole run.
	Instruments(ctx context.Context) ([]string, error)

	// DailyChange probes the single daily bar covering the UTC calendar day
	// of 'day' and returns the typed outcome. Never returns an error value;
	// provider faults are folded into the outcome.
	DailyChange(ctx context.Context, symbol string, day time.Time) models.DailyChange

	// MinuteCandles retrieves the ordered 1-minute bars covering the day
	// window, paginating until the window is exhausted or the provider stops
	// returning data. Partial accumulations are returned, not discarded.
	MinuteCandles(ctx context.Context, symbol string, day time.Time) models.IntradayFetch
}

// Metrics records scanner observability counters.
type Metrics interface {
	RecordProviderRequest(endpoint, outcome string)
	RecordCacheLookup(hit bool)
	RecordPairScanned()
	RecordPairMatched()
	RecordWarning(kind string)
	RecordScanDuration(seconds float64)
}

// NopMetrics discards all recordings. Useful for one-shot CLI runs and tests.
type NopMetrics struct{}

func (NopMetrics) RecordProviderRequest(string, string) {}
func (NopMetrics) RecordCacheLookup(bool)               {}
func (NopMetrics) RecordPairScanned()                   {}
func (NopMetrics) RecordPairMatched()                   {}
func (NopMetrics) RecordWarning(string)                 {}
func (NopMetrics) RecordScanDuration(float64)           {}
