package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// EnvPrefix is prepended to every environment variable the client reads.
const EnvPrefix = "MINUEND_"

// Config holds runtime settings for the Minuend station client.
//
// Durations are time.Duration values; the file loaders accept them as Go
// duration strings ("3s") or integer nanoseconds.
type Config struct {
	ServerURL             string        `env:"SERVER_URL"`
	RequestTimeout        time.Duration `env:"REQUEST_TIMEOUT"`
	RequestsPerSecond     float64       `env:"REQUESTS_PER_SECOND"`
	StationLookupAttempts int           `env:"STATION_LOOKUP_ATTEMPTS"`
	StationLookupBackoff  time.Duration `env:"STATION_LOOKUP_BACKOFF"`
	MissionPollInterval   time.Duration `env:"MISSION_POLL_INTERVAL"`
	LogoutTimeout         time.Duration `env:"LOGOUT_TIMEOUT"`
	DatabasePath          string        `env:"DATABASE_PATH"`
	LogLevel              string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.RequestsPerSecond = 10
	c.StationLookupAttempts = 3
	c.StationLookupBackoff = 500 * time.Millisecond
	c.MissionPollInterval = 5 * time.Second
	c.LogoutTimeout = 5 * time.Second
	c.DatabasePath = "minuend.db"
	c.LogLevel = "info"
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url %q: scheme must be http or https", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("server url %q: missing host", c.ServerURL)
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be positive")
	}
	if c.RequestsPerSecond < 0 {
		return errors.New("requests per second must not be negative")
	}
	if c.StationLookupAttempts < 1 {
		return errors.New("station lookup attempts must be at least 1")
	}
	if c.StationLookupBackoff <= 0 {
		return errors.New("station lookup backoff must be positive")
	}
	if c.MissionPollInterval <= 0 {
		return errors.New("mission poll interval must be positive")
	}
	if c.LogoutTimeout <= 0 {
		return errors.New("logout timeout must be positive")
	}
	if c.DatabasePath == "" {
		return errors.New("database path is empty")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the .env file, the config file, the environment and the command-line flags.
// Later sources take precedence over earlier ones. f may be nil.
func LoadConfig(f *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	envFile, configFile := DefaultEnvFile, ""
	if f != nil {
		envFile, configFile = f.EnvFile, f.ConfigFile
	}

	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}
	if configFile != "" {
		if err := parseFile(cfg, configFile); err != nil {
			return nil, err
		}
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if f != nil {
		f.apply(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
