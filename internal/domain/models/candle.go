package models

// Candle is one OHLCV bar. OpenTime is the inclusive open of the bar's interval
// in epoch milliseconds UTC; consecutive 1-minute bars differ by exactly 60_000
// when the provider's data is complete.
type Candle struct {
	OpenTime int64   `json:"t"`
	Open     float64 `json:"o"`
	High     float64 `json:"h"`
	Low      float64 `json:"l"`
	Close    float64 `json:"c"`
	Volume   float64 `json:"v"`
}

// ProbeOutcome classifies the result of a daily-change probe. The three states
// let callers tell "nothing happened" (no listing on that day) apart from
// "something broke" without inspecting error strings.
type ProbeOutcome int

const (
	ProbeOK ProbeOutcome = iota
	ProbeNoData
	ProbeFault
)

// DailyChange is the typed result of probing one (symbol, day) pair.
// Pct is only meaningful when Outcome is ProbeOK.
type DailyChange struct {
	Pct     float64
	Outcome ProbeOutcome
	Err     error // set when Outcome is ProbeFault
}

// IntradayFetch carries the minute bars accumulated for one day window.
// Complete is false when pagination stopped before the window end, either
// because the provider ran out of data or because a page request failed
// (Fault non-nil in the latter case). Partial bars are still usable; any
// impulse count over them is a lower bound.
type IntradayFetch struct {
	Bars     []Candle
	Complete bool
	Fault    error
}

// GrowthPct computes the close-over-open percentage change of a single bar.
func (c Candle) GrowthPct() float64 {
	if c.Open == 0 {
		return 0
	}
	return (c.Close - c.Open) / c.Open * 100
}
