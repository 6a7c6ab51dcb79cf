package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "environment: test\n")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 8080 {
		t.Fatalf("server.port = %d, want 8080", c.Server.Port)
	}
	if c.Binance.BaseURL != "https://fapi.binance.com" {
		t.Fatalf("binance.base_url = %q", c.Binance.BaseURL)
	}
	if c.Binance.PageLimit != 1500 {
		t.Fatalf("binance.page_limit = %d, want 1500", c.Binance.PageLimit)
	}
	if c.Scanner.GrowthThreshold != 30 {
		t.Fatalf("scanner.growth_threshold = %v, want 30", c.Scanner.GrowthThreshold)
	}
	if c.Scanner.ImpulseWindow != 10 {
		t.Fatalf("scanner.impulse_window = %d, want 10", c.Scanner.ImpulseWindow)
	}
	if c.Scanner.ImpulseThreshold != 0.05 {
		t.Fatalf("scanner.impulse_threshold = %v, want 0.05", c.Scanner.ImpulseThreshold)
	}
	if c.Cache.TTL != 7*24*time.Hour {
		t.Fatalf("cache.ttl = %v", c.Cache.TTL)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	path := writeConfig(t, `
environment: production
server:
  port: 9090
binance:
  page_limit: 500
  requests_per_second: 2
scanner:
  growth_threshold: 50
  impulse_window: 20
  impulse_threshold: 0.1
  symbols: ["BTCUSDT", "ETHUSDT"]
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Server.Port != 9090 {
		t.Fatalf("server.port = %d", c.Server.Port)
	}
	if c.Binance.PageLimit != 500 || c.Binance.RequestsPerSecond != 2 {
		t.Fatalf("binance overrides lost: %+v", c.Binance)
	}
	if c.Scanner.GrowthThreshold != 50 || c.Scanner.ImpulseWindow != 20 || c.Scanner.ImpulseThreshold != 0.1 {
		t.Fatalf("scanner overrides lost: %+v", c.Scanner)
	}
	if len(c.Scanner.Symbols) != 2 || c.Scanner.Symbols[0] != "BTCUSDT" {
		t.Fatalf("symbols = %v", c.Scanner.Symbols)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing environment": "server:\n  port: 8080\n",
		"page limit too big":  "environment: test\nbinance:\n  page_limit: 2000\n",
		"window too small":    "environment: test\nscanner:\n  impulse_window: 1\n",
		"threshold not a fraction": `environment: test
scanner:
  impulse_threshold: 5
`,
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("BINANCE_BASE_URL", "http://localhost:1234")
	t.Setenv("SYMBOLS", "BTCUSDT,SOLUSDT")
	t.Setenv("PORT", "7070")

	c, err := LoadWithEnv(writeConfig(t, "environment: test\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Binance.BaseURL != "http://localhost:1234" {
		t.Fatalf("base url not overridden: %q", c.Binance.BaseURL)
	}
	if len(c.Scanner.Symbols) != 2 || c.Scanner.Symbols[1] != "SOLUSDT" {
		t.Fatalf("symbols not overridden: %v", c.Scanner.Symbols)
	}
	if c.Server.Port != 7070 {
		t.Fatalf("port not overridden: %d", c.Server.Port)
	}
}
