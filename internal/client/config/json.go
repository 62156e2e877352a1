package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/attendance/internal/flagx"
	"github.com/dmitrijs2005/attendance/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration so they can be written as "30s" or as nanoseconds.
type JsonConfig struct {
	APIBaseURL     string          `json:"api_base_url"`
	StorePath      string          `json:"store_path"`
	Ephemeral      *bool           `json:"ephemeral"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	ReportsDir     string          `json:"reports_dir"`
	LogLevel       string          `json:"log_level"`
	LogFormat      string          `json:"log_format"`
	S3Bucket       string          `json:"s3_bucket"`
	S3Region       string          `json:"s3_region"`
	S3Endpoint     string          `json:"s3_endpoint"`
	S3AccessKey    string          `json:"s3_access_key"`
	S3SecretKey    string          `json:"s3_secret_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The path comes from flagx.ConfigFilePath (-c, -config or
// ATTENDANCE_CONFIG); with no path nothing is loaded. Only keys present in
// the file replace earlier values. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFilePath()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.APIBaseURL, jc.APIBaseURL)
	overlay(&cfg.StorePath, jc.StorePath)
	overlay(&cfg.ReportsDir, jc.ReportsDir)
	overlay(&cfg.LogLevel, jc.LogLevel)
	overlay(&cfg.LogFormat, jc.LogFormat)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3Endpoint, jc.S3Endpoint)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)

	if jc.Ephemeral != nil {
		cfg.Ephemeral = *jc.Ephemeral
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
