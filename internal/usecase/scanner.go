package usecase

import (
	"context"
	"fmt"
	"time"

	"impulsescan/internal/domain/models"
	"impulsescan/internal/domain/repository"
	xlogger "impulsescan/pkg/logger"
	"impulsescan/pkg/util"
)

// EventPhase identifies a well-defined point in a scan run at which the
// optional sink is invoked. The pipeline never renders anything itself; a
// display layer subscribes through the sink.
type EventPhase string

const (
	EventCatalogResolved EventPhase = "catalog_resolved"
	EventPairProbed      EventPhase = "pair_probed"
	EventPairWarning     EventPhase = "pair_warning"
	EventPairMatched     EventPhase = "pair_matched"
	EventRunComplete     EventPhase = "run_complete"
)

// EventSink receives pipeline progress events. A nil sink is valid.
type EventSink func(phase EventPhase, payload any)

// CatalogEvent is the payload of EventCatalogResolved.
type CatalogEvent struct {
	Symbols int
	Fixed   bool
}

// ProbeEvent is the payload of EventPairProbed.
type ProbeEvent struct {
	Symbol  string
	Date    time.Time
	Growth  float64
	Outcome models.ProbeOutcome
}

// ScanParams bounds one run. Zero-valued thresholds fall back to the
// scanner's configured defaults.
type ScanParams struct {
	From             time.Time
	To               time.Time
	GrowthThreshold  float64
	ImpulseWindow    int
	ImpulseThreshold float64
	Distinct         bool     // count non-overlapping spike events instead
	Symbols          []string // non-empty selects the fixed catalog strategy
}

// Defaults are the scanner's fallback thresholds, set from configuration.
type Defaults struct {
	GrowthThreshold  float64
	ImpulseWindow    int
	ImpulseThreshold float64
	Symbols          []string
}

// Scanner iterates {days} x {instruments}, pre-filters with the cheap daily
// probe, and runs the minute-bar impulse detection only on pairs that pass.
type Scanner struct {
	source   repository.MarketData
	metrics  repository.Metrics
	log      *xlogger.Logger
	defaults Defaults
	sink     EventSink
}

func NewScanner(source repository.MarketData, metrics repository.Metrics, log *xlogger.Logger, defaults Defaults) *Scanner {
	if metrics == nil {
		metrics = repository.NopMetrics{}
	}
	if defaults.GrowthThreshold == 0 {
		defaults.GrowthThreshold = 30
	}
	if defaults.ImpulseWindow == 0 {
		defaults.ImpulseWindow = 10
	}
	if defaults.ImpulseThreshold == 0 {
		defaults.ImpulseThreshold = 0.05
	}
	return &Scanner{source: source, metrics: metrics, log: log, defaults: defaults}
}

// SetSink registers the progress event sink for subsequent runs.
func (s *Scanner) SetSink(sink EventSink) { s.sink = sink }

// Scan runs one full pass over the date range. Per-pair failures become
// warnings on the report; only catalog resolution failure and cancellation
// abort the run. Results keep (date ascending, catalog order) because that is
// the iteration order; no sorting step exists.
func (s *Scanner) Scan(ctx context.Context, p ScanParams) (*models.Report, error) {
	p = s.withDefaults(p)

	days := util.DaysBetween(p.From, p.To)
	if len(days) == 0 {
		return nil, fmt.Errorf("scan: empty date range %s..%s", util.FormatDate(p.From), util.FormatDate(p.To))
	}

	symbols, fixed, err := s.catalog(ctx, p)
	if err != nil {
		return nil, err
	}
	s.emit(EventCatalogResolved, CatalogEvent{Symbols: len(symbols), Fixed: fixed})
	if s.log != nil {
		s.log.Info("scan started",
			xlogger.String("from", util.FormatDate(p.From)),
			xlogger.String("to", util.FormatDate(p.To)),
			xlogger.Int("symbols", len(symbols)),
			xlogger.Float64("growth_threshold", p.GrowthThreshold))
	}

	report := &models.Report{StartedAt: time.Now().UTC()}
	for _, day := range days {
		for _, symbol := range symbols {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			s.scanPair(ctx, symbol, day, p, report)
		}
	}

	report.Duration = time.Since(report.StartedAt)
	s.metrics.RecordScanDuration(report.Duration.Seconds())
	s.emit(EventRunComplete, report)
	if s.log != nil {
		s.log.Info("scan complete",
			xlogger.Int("results", len(report.Results)),
			xlogger.Int("warnings", len(report.Warnings)),
			xlogger.Int("pairs_scanned", report.PairsScanned),
			xlogger.Duration("duration", report.Duration))
	}
	return report, nil
}

func (s *Scanner) scanPair(ctx context.Context, symbol string, day time.Time, p ScanParams, report *models.Report) {
	report.PairsScanned++
	s.metrics.RecordPairScanned()

	dc := s.source.DailyChange(ctx, symbol, day)
	s.emit(EventPairProbed, ProbeEvent{Symbol: symbol, Date: day, Growth: dc.Pct, Outcome: dc.Outcome})

	switch dc.Outcome {
	case models.ProbeFault:
		s.warn(report, symbol, day, models.WarnProviderFault,
			fmt.Sprintf("daily probe failed: %v", dc.Err))
		return
	case models.ProbeNoData:
		return
	}
	if dc.Pct < p.GrowthThreshold {
		return
	}
	report.PairsPassedGrowth++

	fetch := s.source.MinuteCandles(ctx, symbol, day)
	if fetch.Fault != nil {
		s.warn(report, symbol, day, models.WarnProviderFault,
			fmt.Sprintf("minute fetch failed after %d bars: %v", len(fetch.Bars), fetch.Fault))
	} else if !fetch.Complete {
		s.warn(report, symbol, day, models.WarnPartialData,
			fmt.Sprintf("provider stopped after %d bars; impulse count is a lower bound", len(fetch.Bars)))
	}

	count := CountImpulses(fetch.Bars, p.ImpulseWindow, p.ImpulseThreshold)
	if p.Distinct {
		count = CountDistinctImpulses(fetch.Bars, p.ImpulseWindow, p.ImpulseThreshold)
	}
	if count == 0 {
		return
	}

	result := models.ScanResult{Symbol: symbol, Date: day, Growth: dc.Pct, Impulses: count}
	report.Results = append(report.Results, result)
	s.metrics.RecordPairMatched()
	s.emit(EventPairMatched, result)
}

func (s *Scanner) catalog(ctx context.Context, p ScanParams) ([]string, bool, error) {
	if len(p.Symbols) > 0 {
		return p.Symbols, true, nil
	}
	symbols, err := s.source.Instruments(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("scan: %w", err)
	}
	return symbols, false, nil
}

func (s *Scanner) warn(report *models.Report, symbol string, day time.Time, kind, msg string) {
	w := models.Warning{Symbol: symbol, Date: day, Kind: kind, Message: msg}
	report.Warnings = append(report.Warnings, w)
	s.metrics.RecordWarning(kind)
	s.emit(EventPairWarning, w)
	if s.log != nil {
		s.log.Warn("pair warning",
			xlogger.String("symbol", symbol),
			xlogger.String("date", util.FormatDate(day)),
			xlogger.String("kind", kind),
			xlogger.String("detail", msg))
	}
}

func (s *Scanner) withDefaults(p ScanParams) ScanParams {
	if p.GrowthThreshold == 0 {
		p.GrowthThreshold = s.defaults.GrowthThreshold
	}
	if p.ImpulseWindow == 0 {
		p.ImpulseWindow = s.defaults.ImpulseWindow
	}
	if p.ImpulseThreshold == 0 {
		p.ImpulseThreshold = s.defaults.ImpulseThreshold
	}
	if len(p.Symbols) == 0 {
		p.Symbols = s.defaults.Symbols
	}
	return p
}

func (s *Scanner) emit(phase EventPhase, payload any) {
	if s.sink != nil {
		s.sink(phase, payload)
	}
}
