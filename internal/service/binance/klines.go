package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"impulsescan/internal/domain/models"
	"impulsescan/pkg/cache"
	xhttp "impulsescan/pkg/http"
	xlogger "impulsescan/pkg/logger"
	"impulsescan/pkg/util"
)

// DailyChange probes the single daily bar covering the UTC day of 'day' and
// returns (close-open)/open*100 over it. Zero bars is a normal outcome (the
// instrument had no trading that day); transport failures and malformed
// payloads are folded into a fault outcome rather than raised.
func (c *Client) DailyChange(ctx context.Context, symbol string, day time.Time) models.DailyChange {
	startMs, endMs := util.DayWindow(day)

	rows, err := c.klines(ctx, "daily_klines", map[string][]string{
		"symbol":    {symbol},
		"interval":  {"1d"},
		"startTime": {strconv.FormatInt(startMs, 10)},
		"endTime":   {strconv.FormatInt(endMs, 10)},
		"limit":     {"1"},
	})
	if err != nil {
		return models.DailyChange{Outcome: models.ProbeFault, Err: err}
	}
	if len(rows) == 0 {
		return models.DailyChange{Outcome: models.ProbeNoData}
	}

	bar, ok := parseKlineRow(rows[0])
	if !ok || bar.Open == 0 {
		return models.DailyChange{
			Outcome: models.ProbeFault,
			Err:     fmt.Errorf("binance: malformed daily bar for %s on %s", symbol, util.FormatDate(day)),
		}
	}
	return models.DailyChange{Pct: bar.GrowthPct(), Outcome: models.ProbeOK}
}

// MinuteCandles retrieves the full ordered sequence of 1-minute bars covering
// the UTC day of 'day'. The cursor starts at the window open and advances to
// the last returned bar's open time plus one minute, so gaps in the provider's
// data cannot stall the walk. Pagination stops at the window end or on the
// first empty page; a failed page returns whatever accumulated so far.
func (c *Client) MinuteCandles(ctx context.Context, symbol string, day time.Time) models.IntradayFetch {
	startMs, endMs := util.DayWindow(day)

	if bars, ok := c.cachedDay(ctx, symbol, day); ok {
		return models.IntradayFetch{Bars: bars, Complete: true}
	}

	var bars []models.Candle
	cursor := startMs
	for cursor < endMs {
		rows, err := c.klines(ctx, "minute_klines", map[string][]string{
			"symbol":    {symbol},
			"interval":  {"1m"},
			"startTime": {strconv.FormatInt(cursor, 10)},
			"limit":     {strconv.Itoa(c.pageLimit)},
		})
		if err != nil {
			return models.IntradayFetch{Bars: bars, Complete: false, Fault: err}
		}
		if len(rows) == 0 {
			// Provider has nothing past the cursor: halted trading or delisted.
			return models.IntradayFetch{Bars: bars, Complete: false}
		}

		lastOpen := int64(0)
		for _, row := range rows {
			bar, ok := parseKlineRow(row)
			if !ok {
				continue
			}
			lastOpen = bar.OpenTime
			if bar.OpenTime >= startMs && bar.OpenTime < endMs {
				bars = append(bars, bar)
			}
		}

		next := lastOpen + minuteMs
		if next <= cursor {
			// Nothing parseable moved us forward; skip a whole page to avoid
			// looping on the same cursor.
			next = cursor + int64(c.pageLimit)*minuteMs
		}
		cursor = next
	}

	c.storeDay(ctx, symbol, day, bars)
	return models.IntradayFetch{Bars: bars, Complete: true}
}

// klines issues one rate-limited kline page request and decodes the raw rows.
func (c *Client) klines(ctx context.Context, endpoint string, params map[string][]string) ([][]any, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.burst, c.rps); err != nil {
		return nil, err
	}

	var rows [][]any
	err := c.httpc.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + "/fapi/v1/klines",
		QueryParams: params,
	}, &rows)
	if err != nil {
		c.metrics.RecordProviderRequest(endpoint, "error")
		return nil, fmt.Errorf("binance klines: %w", err)
	}
	c.metrics.RecordProviderRequest(endpoint, "ok")
	return rows, nil
}

// parseKlineRow decodes one provider kline row. The wire shape is Binance's
// mixed array: [openTime, "open", "high", "low", "close", "volume", closeTime, ...].
func parseKlineRow(row []any) (models.Candle, bool) {
	if len(row) < 6 {
		return models.Candle{}, false
	}
	t, e1 := anyToInt64(row[0])
	o, e2 := anyToFloat(row[1])
	h, e3 := anyToFloat(row[2])
	l, e4 := anyToFloat(row[3])
	cl, e5 := anyToFloat(row[4])
	v, e6 := anyToFloat(row[5])
	if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil || e6 != nil {
		return models.Candle{}, false
	}
	return models.Candle{OpenTime: t, Open: o, High: h, Low: l, Close: cl, Volume: v}, true
}

func anyToFloat(x any) (float64, error) {
	switch t := x.(type) {
	case string:
		return strconv.ParseFloat(t, 64)
	case float64:
		return t, nil
	case json.Number:
		return t.Float64()
	default:
		return 0, fmt.Errorf("unexpected number type %T", x)
	}
}

func anyToInt64(x any) (int64, error) {
	switch t := x.(type) {
	case string:
		return strconv.ParseInt(t, 10, 64)
	case float64:
		return int64(t), nil
	case json.Number:
		return t.Int64()
	default:
		return 0, fmt.Errorf("unexpected int type %T", x)
	}
}

// --- day-level candle cache ---
//
// Completed historical days are immutable, so a (symbol, date) minute-bar fetch
// can be reused across overlapping scan ranges. Only complete days are stored.

func dayKey(symbol string, day time.Time) string {
	return "candles:1m:" + symbol + ":" + util.FormatDate(day)
}

func (c *Client) cachedDay(ctx context.Context, symbol string, day time.Time) ([]models.Candle, bool) {
	if c.cache == nil {
		return nil, false
	}
	var raw string
	if err := c.cache.Get(ctx, dayKey(symbol, day), &raw); err != nil {
		if err != cache.ErrCacheMiss && c.log != nil {
			c.log.Warn("candle cache read failed", xlogger.Error(err))
		}
		c.metrics.RecordCacheLookup(false)
		return nil, false
	}
	var bars []models.Candle
	if err := json.Unmarshal([]byte(raw), &bars); err != nil {
		c.metrics.RecordCacheLookup(false)
		return nil, false
	}
	c.metrics.RecordCacheLookup(true)
	return bars, true
}

func (c *Client) storeDay(ctx context.Context, symbol string, day time.Time, bars []models.Candle) {
	if c.cache == nil || len(bars) == 0 {
		return
	}
	raw, err := json.Marshal(bars)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, dayKey(symbol, day), string(raw), c.cacheTTL); err != nil && c.log != nil {
		c.log.Warn("candle cache write failed", xlogger.Error(err))
	}
}
