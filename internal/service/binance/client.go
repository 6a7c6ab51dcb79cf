package binance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"impulsescan/internal/domain/repository"
	"impulsescan/internal/service/ratelimit"
	"impulsescan/pkg/cache"
	xhttp "impulsescan/pkg/http"
	xlogger "impulsescan/pkg/logger"
)

// ErrCatalogUnavailable means instrument discovery failed. There is nothing to
// scan without a catalog, so callers treat this as fatal for the whole run.
var ErrCatalogUnavailable = errors.New("binance: instrument catalog unavailable")

const (
	defaultBaseURL   = "https://fapi.binance.com"
	defaultPageLimit = 1500
	minuteMs         = 60_000

	limiterKey = "fapi"
)

// Options configures the USDT-M futures client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	PageLimit         int
	RequestsPerSecond float64
	Burst             float64

	Limiter  *ratelimit.Limiter
	Cache    cache.Service // optional: caches complete minute-bar days
	CacheTTL time.Duration
	Metrics  repository.Metrics
	Logger   *xlogger.Logger
}

// Client implements repository.MarketData against the Binance futures REST API.
type Client struct {
	baseURL   string
	pageLimit int
	rps       float64
	burst     float64

	httpc    *xhttp.Client
	limiter  *ratelimit.Limiter
	cache    cache.Service
	cacheTTL time.Duration
	metrics  repository.Metrics
	log      *xlogger.Logger
}

// New creates a Binance futures market-data client.
func New(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.PageLimit <= 0 || o.PageLimit > defaultPageLimit {
		o.PageLimit = defaultPageLimit
	}
	if o.RequestsPerSecond <= 0 {
		o.RequestsPerSecond = 5
	}
	if o.Burst <= 0 {
		o.Burst = o.RequestsPerSecond
	}
	if o.Limiter == nil {
		o.Limiter = ratelimit.New()
	}
	if o.Metrics == nil {
		o.Metrics = repository.NopMetrics{}
	}
	if o.CacheTTL == 0 {
		o.CacheTTL = 7 * 24 * time.Hour
	}
	return &Client{
		baseURL:   o.BaseURL,
		pageLimit: o.PageLimit,
		rps:       o.RequestsPerSecond,
		burst:     o.Burst,
		httpc:     xhttp.NewClient(xhttp.WithTimeout(o.Timeout)),
		limiter:   o.Limiter,
		cache:     o.Cache,
		cacheTTL:  o.CacheTTL,
		metrics:   o.Metrics,
		log:       o.Logger,
	}
}

type exchangeInfo struct {
	Symbols []struct {
		Symbol       string `json:"symbol"`
		ContractType string `json:"contractType"`
	} `json:"symbols"`
}

// Instruments resolves every perpetual contract symbol on the futures market.
func (c *Client) Instruments(ctx context.Context) ([]string, error) {
	if err := c.limiter.Wait(ctx, limiterKey, c.burst, c.rps); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	var info exchangeInfo
	err := c.httpc.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    c.baseURL + "/fapi/v1/exchangeInfo",
	}, &info)
	if err != nil {
		c.metrics.RecordProviderRequest("exchange_info", "error")
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	c.metrics.RecordProviderRequest("exchange_info", "ok")

	symbols := make([]string, 0, len(info.Symbols))
	for _, s := range info.Symbols {
		if s.ContractType == "PERPETUAL" {
			symbols = append(symbols, s.Symbol)
		}
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("%w: no perpetual contracts in exchange info", ErrCatalogUnavailable)
	}

	if c.log != nil {
		c.log.Debug("catalog resolved", xlogger.Int("symbols", len(symbols)))
	}
	return symbols, nil
}
