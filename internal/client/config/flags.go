package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags binds the configuration flags to a pflag.FlagSet (normally the
// persistent flags of the cobra root command).
type Flags struct {
	fs *pflag.FlagSet

	ConfigFile string
	EnvFile    string

	serverURL      string
	requestTimeout time.Duration
	rps            float64
	lookupAttempts int
	lookupBackoff  time.Duration
	pollInterval   time.Duration
	logoutTimeout  time.Duration
	databasePath   string
	logLevel       string
}

// RegisterFlags defines the client flags on fs. Defaults shown in help come
// from (*Config).LoadDefaults; only flags the user sets override other sources.
func RegisterFlags(fs *pflag.FlagSet) *Flags {
	var d Config
	d.LoadDefaults()

	f := &Flags{fs: fs}
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "path to a .json or .toml config file")
	fs.StringVar(&f.EnvFile, "env-file", DefaultEnvFile, "path to a dotenv file")
	fs.StringVarP(&f.serverURL, "server", "s", d.ServerURL, "base URL of the game server")
	fs.DurationVar(&f.requestTimeout, "timeout", d.RequestTimeout, "per-request timeout")
	fs.Float64Var(&f.rps, "rps", d.RequestsPerSecond, "outbound requests per second (0 = unlimited)")
	fs.IntVar(&f.lookupAttempts, "lookup-attempts", d.StationLookupAttempts, "station lookup attempts")
	fs.DurationVar(&f.lookupBackoff, "lookup-backoff", d.StationLookupBackoff, "initial station lookup backoff")
	fs.DurationVar(&f.pollInterval, "poll-interval", d.MissionPollInterval, "mission status poll interval")
	fs.DurationVar(&f.logoutTimeout, "logout-timeout", d.LogoutTimeout, "timeout of the background logout call")
	fs.StringVar(&f.databasePath, "db", d.DatabasePath, "path to the local SQLite database")
	fs.StringVar(&f.logLevel, "log-level", d.LogLevel, "log level: debug, info, warn, error")
	return f
}

func (f *Flags) apply(cfg *Config) {
	if f.fs == nil {
		return
	}
	if f.fs.Changed("server") {
		cfg.ServerURL = f.serverURL
	}
	if f.fs.Changed("timeout") {
		cfg.RequestTimeout = f.requestTimeout
	}
	if f.fs.Changed("rps") {
		cfg.RequestsPerSecond = f.rps
	}
	if f.fs.Changed("lookup-attempts") {
		cfg.StationLookupAttempts = f.lookupAttempts
	}
	if f.fs.Changed("lookup-backoff") {
		cfg.StationLookupBackoff = f.lookupBackoff
	}
	if f.fs.Changed("poll-interval") {
		cfg.MissionPollInterval = f.pollInterval
	}
	if f.fs.Changed("logout-timeout") {
		cfg.LogoutTimeout = f.logoutTimeout
	}
	if f.fs.Changed("db") {
		cfg.DatabasePath = f.databasePath
	}
	if f.fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}
