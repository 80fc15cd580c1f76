package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP  HTTPConfig  `yaml:"http"`
	Chart ChartConfig `yaml:"chart"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address      string          `yaml:"address"`
	ReadTimeout  time.Duration   `yaml:"readTimeout"`
	WriteTimeout time.Duration   `yaml:"writeTimeout"`
	RateLimit    RateLimitConfig `yaml:"rateLimit"`
	CORS         CORSConfig      `yaml:"cors"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// CORSConfig restricts which origins may call the API.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// ChartConfig controls the birth chart domain.
type ChartConfig struct {
	EngineURL      string        `yaml:"engineUrl"`
	Locale         string        `yaml:"locale"`
	CacheTTL       time.Duration `yaml:"cacheTtl"`
	TimeForm       string        `yaml:"timeForm"`
	LateSlotPolicy string        `yaml:"lateSlotPolicy"`
	ViewerBaseURL  string        `yaml:"viewerBaseUrl"`
	Valkey         ValkeyConfig  `yaml:"valkey"`
}

// ValkeyConfig contains connection information for the shared cache backend.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_CORS_ORIGINS"); v != "" {
		cfg.HTTP.CORS.AllowedOrigins = splitAndTrim(v)
	}
	if v := os.Getenv("CHART_ENGINE_URL"); v != "" {
		cfg.Chart.EngineURL = v
	}
	if v := os.Getenv("CHART_LOCALE"); v != "" {
		cfg.Chart.Locale = v
	}
	if v := os.Getenv("CHART_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Chart.CacheTTL = parsed
		}
	}
	if v := os.Getenv("CHART_TIME_FORM"); v != "" {
		cfg.Chart.TimeForm = v
	}
	if v := os.Getenv("CHART_LATE_SLOT_POLICY"); v != "" {
		cfg.Chart.LateSlotPolicy = v
	}
	if v := os.Getenv("CHART_VIEWER_BASE_URL"); v != "" {
		cfg.Chart.ViewerBaseURL = v
	}
	if v := os.Getenv("CHART_VALKEY_ENABLED"); v != "" {
		cfg.Chart.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("CHART_VALKEY_ADDR"); v != "" {
		cfg.Chart.Valkey.Addr = v
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if clean := strings.TrimSpace(part); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Chart: ChartConfig{
			EngineURL:      "http://127.0.0.1:3311",
			Locale:         "zh-CN",
			CacheTTL:       10 * time.Minute,
			TimeForm:       "timeIndex",
			LateSlotPolicy: "next-day",
			ViewerBaseURL:  "https://ziwei.pub/astrolabe/",
			Valkey: ValkeyConfig{
				Enabled: false,
				Addr:    "",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Chart.EngineURL) == "" {
		return errors.New("chart.engineUrl cannot be empty")
	}
	if c.Chart.Locale == "" {
		return errors.New("chart.locale cannot be empty")
	}
	if c.Chart.CacheTTL < 0 {
		return errors.New("chart.cacheTtl cannot be negative")
	}
	switch c.Chart.TimeForm {
	case "timeIndex", "hour", "clock":
	default:
		return fmt.Errorf("chart.timeForm must be one of timeIndex, hour, clock (got %q)", c.Chart.TimeForm)
	}
	switch c.Chart.LateSlotPolicy {
	case "next-day", "same-day":
	default:
		return fmt.Errorf("chart.lateSlotPolicy must be next-day or same-day (got %q)", c.Chart.LateSlotPolicy)
	}
	if strings.TrimSpace(c.Chart.ViewerBaseURL) == "" {
		return errors.New("chart.viewerBaseUrl cannot be empty")
	}
	if c.Chart.Valkey.Enabled && strings.TrimSpace(c.Chart.Valkey.Addr) == "" {
		return errors.New("chart.valkey.addr cannot be empty when the valkey cache is enabled")
	}
	return nil
}
