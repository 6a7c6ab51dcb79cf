package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"impulsescan/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Binance struct {
		BaseURL           string        `yaml:"base_url"`
		Timeout           time.Duration `yaml:"timeout"`
		PageLimit         int           `yaml:"page_limit"`
		RequestsPerSecond float64       `yaml:"requests_per_second"`
		Burst             float64       `yaml:"burst"`
	} `yaml:"binance"`
	Scanner struct {
		GrowthThreshold  float64  `yaml:"growth_threshold"`
		ImpulseWindow    int      `yaml:"impulse_window"`
		ImpulseThreshold float64  `yaml:"impulse_threshold"`
		Symbols          []string `yaml:"symbols"` // non-empty switches to the fixed catalog
	} `yaml:"scanner"`
	Cache struct {
		Enabled    bool          `yaml:"enabled"`
		MaxEntries int           `yaml:"max_entries"`
		TTL        time.Duration `yaml:"ttl"`
		Redis      struct {
			Enabled  bool   `yaml:"enabled"`
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BINANCE_BASE_URL"); v != "" {
		c.Binance.BaseURL = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Scanner.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Cache.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// Scans run for minutes; the write timeout has to cover a synchronous run.
		c.Server.WriteTimeout = 30 * time.Minute
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Binance.BaseURL == "" {
		c.Binance.BaseURL = "https://fapi.binance.com"
	}
	if c.Binance.Timeout == 0 {
		c.Binance.Timeout = 30 * time.Second
	}
	if c.Binance.PageLimit == 0 {
		c.Binance.PageLimit = 1500
	}
	if c.Binance.RequestsPerSecond == 0 {
		c.Binance.RequestsPerSecond = 5
	}
	if c.Binance.Burst == 0 {
		c.Binance.Burst = 5
	}
	if c.Scanner.GrowthThreshold == 0 {
		c.Scanner.GrowthThreshold = 30
	}
	if c.Scanner.ImpulseWindow == 0 {
		c.Scanner.ImpulseWindow = 10
	}
	if c.Scanner.ImpulseThreshold == 0 {
		c.Scanner.ImpulseThreshold = 0.05
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 512
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 7 * 24 * time.Hour
	}
	if c.Cache.Redis.Host == "" {
		c.Cache.Redis.Host = "localhost"
	}
	if c.Cache.Redis.Port == 0 {
		c.Cache.Redis.Port = 6379
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "impulsescan"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Binance.PageLimit < 1 || c.Binance.PageLimit > 1500 {
		return fmt.Errorf("binance.page_limit must be in [1, 1500], got %d", c.Binance.PageLimit)
	}
	if c.Binance.RequestsPerSecond <= 0 {
		return fmt.Errorf("binance.requests_per_second must be positive")
	}
	if c.Scanner.ImpulseWindow < 2 {
		return fmt.Errorf("scanner.impulse_window must be at least 2, got %d", c.Scanner.ImpulseWindow)
	}
	if c.Scanner.ImpulseThreshold <= 0 || c.Scanner.ImpulseThreshold >= 1 {
		return fmt.Errorf("scanner.impulse_threshold must be a fraction in (0, 1), got %g", c.Scanner.ImpulseThreshold)
	}
	return nil
}
