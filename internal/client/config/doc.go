// Package config loads runtime configuration for the Minuend station client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional dotenv file (--env-file, default ".env"), exported into the
//     process environment without overriding variables that are already set.
//  3. Optional config file selected by --config / -c; ".json" and ".toml"
//     are supported.
//  4. Environment variables prefixed with MINUEND_.
//  5. Command-line flags the user actually set.
//
// # File schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds (JSON only):
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "requests_per_second": 10,
//	  "station_lookup_attempts": 3,
//	  "station_lookup_backoff": "500ms",
//	  "mission_poll_interval": "5s",
//	  "logout_timeout": "5s",
//	  "database_path": "minuend.db",
//	  "log_level": "info"
//	}
//
// Keys that are absent from the file keep the value of the earlier source.
package config
