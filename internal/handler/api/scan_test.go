package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"impulsescan/internal/domain/models"
	"impulsescan/internal/domain/repository"
	"impulsescan/internal/service/binance"
	"impulsescan/internal/usecase"
	xlogger "impulsescan/pkg/logger"
)

type stubMarket struct {
	catalogErr error
}

func (s *stubMarket) Instruments(context.Context) ([]string, error) {
	if s.catalogErr != nil {
		return nil, s.catalogErr
	}
	return []string{"XUSDT"}, nil
}

func (s *stubMarket) DailyChange(context.Context, string, time.Time) models.DailyChange {
	return models.DailyChange{Pct: 45, Outcome: models.ProbeOK}
}

func (s *stubMarket) MinuteCandles(context.Context, string, time.Time) models.IntradayFetch {
	bars := make([]models.Candle, 60)
	for i := range bars {
		bars[i] = models.Candle{OpenTime: int64(i) * 60_000, Open: 100, High: 100, Low: 100, Close: 100}
	}
	bars[30].High = 120
	return models.IntradayFetch{Bars: bars, Complete: true}
}

func newTestHandler(t *testing.T, src repository.MarketData) *echo.Echo {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	scanner := usecase.NewScanner(src, repository.NopMetrics{}, nil, usecase.Defaults{})
	h := NewScanEchoHandler(log, scanner)
	e := echo.New()
	h.RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

type apiEnvelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
	}
	return env
}

func TestScanEndpoint(t *testing.T) {
	e := newTestHandler(t, &stubMarket{})

	rec := doJSON(e, http.MethodPost, "/api/scan", `{"from":"2025-05-05","to":"2025-05-05"}`)
	env := decodeEnvelope(t, rec)
	if env.Status != http.StatusOK {
		t.Fatalf("status = %d, body %s", env.Status, rec.Body.String())
	}

	var report struct {
		Results []struct {
			Symbol   string  `json:"symbol"`
			Date     string  `json:"date"`
			Growth   float64 `json:"growth"`
			Impulses int     `json:"impulses"`
		} `json:"results"`
		PairsScanned int `json:"pairs_scanned"`
	}
	if err := json.Unmarshal(env.Data, &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("results = %+v", report.Results)
	}
	r := report.Results[0]
	if r.Symbol != "XUSDT" || r.Date != "2025-05-05" || r.Growth != 45 || r.Impulses < 1 {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestScanEndpointValidation(t *testing.T) {
	e := newTestHandler(t, &stubMarket{})

	for name, body := range map[string]string{
		"missing from":   `{"to":"2025-05-05"}`,
		"bad date":       `{"from":"05/05/2025","to":"2025-05-05"}`,
		"reversed range": `{"from":"2025-05-06","to":"2025-05-05"}`,
		"window too big": `{"from":"2025-05-05","to":"2025-05-05","impulse_window":500}`,
	} {
		rec := doJSON(e, http.MethodPost, "/api/scan", body)
		if env := decodeEnvelope(t, rec); env.Status != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, body %s", name, env.Status, rec.Body.String())
		}
	}
}

func TestScanEndpointCatalogUnavailable(t *testing.T) {
	e := newTestHandler(t, &stubMarket{catalogErr: binance.ErrCatalogUnavailable})

	rec := doJSON(e, http.MethodPost, "/api/scan", `{"from":"2025-05-05","to":"2025-05-05"}`)
	if env := decodeEnvelope(t, rec); env.Status != http.StatusBadGateway {
		t.Fatalf("status = %d, body %s", env.Status, rec.Body.String())
	}
}

func TestExportEndpoint(t *testing.T) {
	e := newTestHandler(t, &stubMarket{})

	rec := doJSON(e, http.MethodPost, "/api/scan/export", `{"from":"2025-05-05","to":"2025-05-05"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get(echo.HeaderContentDisposition); !strings.Contains(cd, "impulse_report.csv") {
		t.Fatalf("content disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if lines[0] != "Symbol,Date,Daily Growth %,Impulses" {
		t.Fatalf("header = %q", lines[0])
	}
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "XUSDT,2025-05-05,45.00,") {
		t.Fatalf("rows = %v", lines[1:])
	}
}

func TestHealthEndpoint(t *testing.T) {
	e := newTestHandler(t, &stubMarket{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
