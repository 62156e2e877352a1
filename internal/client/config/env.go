package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with ATTENDANCE_* variables. A .env file in the
// working directory is loaded first; variables already set in the process
// environment win over it. Malformed values are ignored.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.APIBaseURL, "ATTENDANCE_API_URL")
	setString(&cfg.StorePath, "ATTENDANCE_STORE_PATH")
	setString(&cfg.ReportsDir, "ATTENDANCE_REPORTS_DIR")
	setString(&cfg.LogLevel, "ATTENDANCE_LOG_LEVEL")
	setString(&cfg.LogFormat, "ATTENDANCE_LOG_FORMAT")
	setString(&cfg.S3Bucket, "ATTENDANCE_S3_BUCKET")
	setString(&cfg.S3Region, "ATTENDANCE_S3_REGION")
	setString(&cfg.S3Endpoint, "ATTENDANCE_S3_ENDPOINT")
	setString(&cfg.S3AccessKey, "ATTENDANCE_S3_ACCESS_KEY")
	setString(&cfg.S3SecretKey, "ATTENDANCE_S3_SECRET_KEY")

	if v := os.Getenv("ATTENDANCE_EPHEMERAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Ephemeral = b
		}
	}
	if v := os.Getenv("ATTENDANCE_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
