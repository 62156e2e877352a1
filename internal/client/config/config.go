package config

import "time"

// Config holds runtime settings for the attendance CLI.
//
// Fields:
//   - APIBaseURL: scheme://host[:port] of the attendance backend.
//   - StorePath: SQLite file holding the persisted credential.
//   - Ephemeral: keep the credential in memory only (nothing touches disk).
//   - RequestTimeout: transport timeout for backend calls; 0 disables it.
//   - ReportsDir: directory where downloaded reports are saved.
//   - LogLevel / LogFormat: logger verbosity and encoder ("text" or "json").
//   - S3*: optional object storage target for downloaded reports.
type Config struct {
	APIBaseURL     string
	StorePath      string
	Ephemeral      bool
	RequestTimeout time.Duration
	ReportsDir     string
	LogLevel       string
	LogFormat      string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.StorePath = "attendance.db"
	c.Ephemeral = false
	c.RequestTimeout = 30 * time.Second
	c.ReportsDir = "reports"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.S3Region = "us-east-1"
}

// S3Enabled reports whether downloaded reports should go to object storage.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and .env), JSON (if present) and command-line flags (if
// present). Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
