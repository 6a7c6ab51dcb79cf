package models

import (
	"math"
	"time"
)

// ScanResult is one matched (symbol, date) pair. Growth is stored unrounded;
// rounding to 2 decimals happens only at the presentation/export boundary.
type ScanResult struct {
	Symbol   string    `json:"symbol"`
	Date     time.Time `json:"date"`
	Growth   float64   `json:"growth"`
	Impulses int       `json:"impulses"`
}

// RoundedGrowth returns the daily growth percent rounded to 2 decimal places.
func (r ScanResult) RoundedGrowth() float64 {
	return math.Round(r.Growth*100) / 100
}

// Warning kinds surfaced per (symbol, date) pair.
const (
	WarnProviderFault = "provider_fault" // transport failed or payload malformed
	WarnPartialData   = "partial_data"   // pagination ended before the window end
)

// Warning tags a recoverable per-pair problem. Warnings never abort a run;
// the pair simply contributes no result (or a lower-bound one for partial data).
type Warning struct {
	Symbol  string    `json:"symbol"`
	Date    time.Time `json:"date"`
	Kind    string    `json:"kind"`
	Message string    `json:"message"`
}

// Report is the outcome of one full scan run.
type Report struct {
	Results           []ScanResult  `json:"results"`
	Warnings          []Warning     `json:"warnings"`
	PairsScanned      int           `json:"pairs_scanned"`
	PairsPassedGrowth int           `json:"pairs_passed_growth"`
	StartedAt         time.Time     `json:"started_at"`
	Duration          time.Duration `json:"duration"`
}
