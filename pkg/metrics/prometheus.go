package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	providerRequests *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	pairsScanned     prometheus.Counter
	pairsMatched     prometheus.Counter
	warningsTotal    *prometheus.CounterVec
	scanDuration     prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		providerRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "impulsescan_provider_requests_total",
				Help: "Total number of requests issued to the market-data provider",
			},
			[]string{"endpoint", "outcome"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "impulsescan_candle_cache_lookups_total",
				Help: "Minute-candle cache lookups by result",
			},
			[]string{"result"},
		),
		pairsScanned: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "impulsescan_pairs_scanned_total",
				Help: "Total number of (symbol, date) pairs probed",
			},
		),
		pairsMatched: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "impulsescan_pairs_matched_total",
				Help: "Total number of (symbol, date) pairs that passed both filters",
			},
		),
		warningsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "impulsescan_warnings_total",
				Help: "Per-pair warnings surfaced during scans",
			},
			[]string{"kind"},
		),
		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "impulsescan_scan_duration_seconds",
				Help:    "Duration of full scan runs in seconds",
				Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
			},
		),
	}
}

// RecordProviderRequest records one provider request by endpoint and outcome.
func (r *Recorder) RecordProviderRequest(endpoint, outcome string) {
	r.providerRequests.WithLabelValues(endpoint, outcome).Inc()
}

// RecordCacheLookup records a candle-cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordPairScanned records one probed (symbol, date) pair.
func (r *Recorder) RecordPairScanned() {
	r.pairsScanned.Inc()
}

// RecordPairMatched records one pair that produced a result.
func (r *Recorder) RecordPairMatched() {
	r.pairsMatched.Inc()
}

// RecordWarning records a surfaced per-pair warning.
func (r *Recorder) RecordWarning(kind string) {
	r.warningsTotal.WithLabelValues(kind).Inc()
}

// RecordScanDuration records a full run duration in seconds.
func (r *Recorder) RecordScanDuration(seconds float64) {
	r.scanDuration.Observe(seconds)
}
