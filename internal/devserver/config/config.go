// Package config handles configuration for the development backend,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the development backend.
//
// Fields:
//   - Address: bind address of the HTTP listener.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Empty means
//     a random key per process, which invalidates tokens on restart.
//   - AccessTokenValidityDuration: access token lifetime.
//   - ShortageThreshold: attendance percentage below which a course is flagged.
//   - LogLevel / LogFormat: logger verbosity and encoder ("text" or "json").
type Config struct {
	Address                     string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	ShortageThreshold           float64
	LogLevel                    string
	LogFormat                   string
}

// LoadDefaults populates Config with development defaults.
// NOTE: these values are for local use only.
func (c *Config) LoadDefaults() {
	c.Address = "127.0.0.1:8000"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.ShortageThreshold = 75
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
