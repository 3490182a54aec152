package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dmitrijs2005/minuend/internal/timex"
)

// fileConfig is a DTO used for JSON and TOML unmarshalling. Pointer fields
// tell "absent" apart from a zero value so only present keys override.
type fileConfig struct {
	ServerURL             *string         `json:"server_url" toml:"server_url"`
	RequestTimeout        *timex.Duration `json:"request_timeout" toml:"request_timeout"`
	RequestsPerSecond     *float64        `json:"requests_per_second" toml:"requests_per_second"`
	StationLookupAttempts *int            `json:"station_lookup_attempts" toml:"station_lookup_attempts"`
	StationLookupBackoff  *timex.Duration `json:"station_lookup_backoff" toml:"station_lookup_backoff"`
	MissionPollInterval   *timex.Duration `json:"mission_poll_interval" toml:"mission_poll_interval"`
	LogoutTimeout         *timex.Duration `json:"logout_timeout" toml:"logout_timeout"`
	DatabasePath          *string         `json:"database_path" toml:"database_path"`
	LogLevel              *string         `json:"log_level" toml:"log_level"`
}

// parseFile overlays cfg with the values found in a .json or .toml file.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &fc); err != nil {
			return fmt.Errorf("decode json config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &fc); err != nil {
			return fmt.Errorf("decode toml config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}

	fc.apply(cfg)
	return nil
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.ServerURL != nil {
		cfg.ServerURL = *fc.ServerURL
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.RequestsPerSecond != nil {
		cfg.RequestsPerSecond = *fc.RequestsPerSecond
	}
	if fc.StationLookupAttempts != nil {
		cfg.StationLookupAttempts = *fc.StationLookupAttempts
	}
	if fc.StationLookupBackoff != nil {
		cfg.StationLookupBackoff = fc.StationLookupBackoff.Duration
	}
	if fc.MissionPollInterval != nil {
		cfg.MissionPollInterval = fc.MissionPollInterval.Duration
	}
	if fc.LogoutTimeout != nil {
		cfg.LogoutTimeout = fc.LogoutTimeout.Duration
	}
	if fc.DatabasePath != nil {
		cfg.DatabasePath = *fc.DatabasePath
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
}
