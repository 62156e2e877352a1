package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/attendance/internal/flagx"
	"github.com/dmitrijs2005/attendance/internal/timex"
)

// JsonConfig is the JSON form of Config. Durations accept both "30m" and
// integer nanoseconds.
type JsonConfig struct {
	Address                     string          `json:"address"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	ShortageThreshold           *float64        `json:"shortage_threshold"`
	LogLevel                    string          `json:"log_level"`
	LogFormat                   string          `json:"log_format"`
}

// parseJson loads configuration values from the JSON file named by -c,
// -config or ATTENDANCE_CONFIG. Keys absent from the file keep their
// earlier values. A missing or malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Address != "" {
		config.Address = c.Address
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.ShortageThreshold != nil {
		config.ShortageThreshold = *c.ShortageThreshold
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
}
