// Command scan runs one scan over a date range and writes the CSV report.
// It is the diagnostics surface: -symbols switches to the fixed catalog so a
// handful of instruments can be inspected without touching exchange info.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"impulsescan/internal/domain/models"
	"impulsescan/internal/domain/repository"
	"impulsescan/internal/export"
	"impulsescan/internal/service/binance"
	"impulsescan/internal/service/ratelimit"
	"impulsescan/internal/usecase"
	"impulsescan/pkg/cache"
	"impulsescan/pkg/config"
	"impulsescan/pkg/logger"
	"impulsescan/pkg/util"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	from := flag.String("from", "", "first scan date (YYYY-MM-DD)")
	to := flag.String("to", "", "last scan date (YYYY-MM-DD), defaults to -from")
	out := flag.String("out", "", "CSV output path, '-' or empty for stdout")
	symbols := flag.String("symbols", "", "comma-separated fixed symbol list (skips catalog discovery)")
	growth := flag.Float64("growth", 0, "daily growth threshold percent (0 = config default)")
	window := flag.Int("window", 0, "impulse window in minutes (0 = config default)")
	threshold := flag.Float64("threshold", 0, "impulse threshold fraction (0 = config default)")
	distinct := flag.Bool("distinct", false, "count non-overlapping impulse events")
	verbose := flag.Bool("v", false, "log every probed pair")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	fromDay, ok := util.ParseDate(*from)
	if !ok {
		log.Fatalf("-from is required as YYYY-MM-DD")
	}
	toDay := util.ParseDateDefault(*to, fromDay)

	l, err := logger.New(&logger.Config{Level: cfg.Logging.Level, Format: "console", Output: "stderr"})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	var candleCache cache.Service
	if cfg.Cache.Enabled {
		candleCache = cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MaxEntries))
		defer candleCache.Close()
	}

	source := binance.New(binance.Options{
		BaseURL:           cfg.Binance.BaseURL,
		Timeout:           cfg.Binance.Timeout,
		PageLimit:         cfg.Binance.PageLimit,
		RequestsPerSecond: cfg.Binance.RequestsPerSecond,
		Burst:             cfg.Binance.Burst,
		Limiter:           ratelimit.New(),
		Cache:             candleCache,
		CacheTTL:          cfg.Cache.TTL,
		Metrics:           repository.NopMetrics{},
		Logger:            l,
	})

	scanner := usecase.NewScanner(source, repository.NopMetrics{}, l, usecase.Defaults{
		GrowthThreshold:  cfg.Scanner.GrowthThreshold,
		ImpulseWindow:    cfg.Scanner.ImpulseWindow,
		ImpulseThreshold: cfg.Scanner.ImpulseThreshold,
	})
	scanner.SetSink(progressSink(l, *verbose))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := scanner.Scan(ctx, usecase.ScanParams{
		From:             fromDay,
		To:               toDay,
		GrowthThreshold:  *growth,
		ImpulseWindow:    *window,
		ImpulseThreshold: *threshold,
		Distinct:         *distinct,
		Symbols:          util.SplitSymbols(*symbols),
	})
	if err != nil {
		log.Fatalf("scan failed: %v", err)
	}

	var w io.Writer = os.Stdout
	if *out != "" && *out != "-" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}
	if err := export.WriteCSV(w, report.Results); err != nil {
		log.Fatalf("write report: %v", err)
	}
	fmt.Fprintf(os.Stderr, "found %d matches, %d warnings\n", len(report.Results), len(report.Warnings))
}

func progressSink(l *logger.Logger, verbose bool) usecase.EventSink {
	return func(phase usecase.EventPhase, payload any) {
		switch phase {
		case usecase.EventCatalogResolved:
			ev := payload.(usecase.CatalogEvent)
			l.Info("catalog resolved", logger.Int("symbols", ev.Symbols), logger.Any("fixed", ev.Fixed))
		case usecase.EventPairProbed:
			if !verbose {
				return
			}
			ev := payload.(usecase.ProbeEvent)
			l.Debug("pair probed",
				logger.String("symbol", ev.Symbol),
				logger.String("date", util.FormatDate(ev.Date)),
				logger.Float64("growth", ev.Growth))
		case usecase.EventPairMatched:
			r := payload.(models.ScanResult)
			l.Info("match",
				logger.String("symbol", r.Symbol),
				logger.String("date", util.FormatDate(r.Date)),
				logger.Float64("growth", r.RoundedGrowth()),
				logger.Int("impulses", r.Impulses))
		}
	}
}
