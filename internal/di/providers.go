package di

import (
	"impulsescan/internal/domain/repository"
	"impulsescan/internal/handler/api"
	"impulsescan/internal/service/binance"
	"impulsescan/internal/service/ratelimit"
	"impulsescan/internal/usecase"
	"impulsescan/pkg/cache"
	"impulsescan/pkg/config"
	xhttp "impulsescan/pkg/http"
	"impulsescan/pkg/logger"
	"impulsescan/pkg/metrics"
	"impulsescan/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideLimiter creates the process-wide outbound request budget.
func ProvideLimiter() *ratelimit.Limiter {
	return ratelimit.New()
}

// ProvideCache creates the candle cache, or nil when caching is disabled.
// A Redis backend that cannot be reached degrades to the in-memory cache.
func ProvideCache(cfg *config.Config, log *logger.Logger) cache.Service {
	if !cfg.Cache.Enabled {
		return nil
	}
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err == nil {
			return rc
		}
		log.Warn("redis cache unavailable, falling back to memory", logger.Error(err))
	}
	return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxEntries))
}

// ProvideMarketData creates the Binance futures market-data source.
func ProvideMarketData(
	cfg *config.Config,
	limiter *ratelimit.Limiter,
	candleCache cache.Service,
	m repository.Metrics,
	log *logger.Logger,
) repository.MarketData {
	return binance.New(binance.Options{
		BaseURL:           cfg.Binance.BaseURL,
		Timeout:           cfg.Binance.Timeout,
		PageLimit:         cfg.Binance.PageLimit,
		RequestsPerSecond: cfg.Binance.RequestsPerSecond,
		Burst:             cfg.Binance.Burst,
		Limiter:           limiter,
		Cache:             candleCache,
		CacheTTL:          cfg.Cache.TTL,
		Metrics:           m,
		Logger:            log,
	})
}

// ProvideScanner creates the scan orchestrator with configured defaults.
func ProvideScanner(
	cfg *config.Config,
	source repository.MarketData,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.Scanner {
	return usecase.NewScanner(source, m, log, usecase.Defaults{
		GrowthThreshold:  cfg.Scanner.GrowthThreshold,
		ImpulseWindow:    cfg.Scanner.ImpulseWindow,
		ImpulseThreshold: cfg.Scanner.ImpulseThreshold,
		Symbols:          cfg.Scanner.Symbols,
	})
}

// ProvideScanHandler creates the HTTP scan handler.
func ProvideScanHandler(log *logger.Logger, scanner *usecase.Scanner) xhttp.Handler {
	return api.NewScanEchoHandler(log, scanner)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler xhttp.Handler,
	candleCache cache.Service,
) *server.App {
	return server.New(cfg, log, handler, candleCache)
}
