// Package config loads service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	FeedURL      string
	FetchTimeout time.Duration

	DBPath        string
	CycleInterval time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	LogFile         string
	ShutdownTimeout time.Duration
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Best effort; absence of a .env file is the normal case in production.
	_ = godotenv.Load()

	fetchTimeout, err := durationEnv("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cycleInterval, err := durationEnv("CYCLE_INTERVAL", 20*time.Minute)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		FeedURL:         envOrDefault("FEED_URL", "https://data.buienradar.nl/2.0/feed/json"),
		FetchTimeout:    fetchTimeout,
		DBPath:          envOrDefault("DB_PATH", "data/weather.db"),
		CycleInterval:   cycleInterval,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		LogFile:         envOrDefault("LOG_FILE", "weather-ingest.log"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DBPath == "" {
		return nil, errors.New("DB_PATH is required")
	}
	u, err := url.Parse(cfg.FeedURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid FEED_URL %q", cfg.FeedURL)
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (want json or text)", cfg.LogFormat)
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return d, nil
}
