// Package config loads runtime configuration for the attendance CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and ATTENDANCE_* environment
//     variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via -c / -config or the
//     ATTENDANCE_CONFIG variable.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string   base URL of the attendance backend
//	-s string   path of the local credential store
//	-e          keep the credential in memory only
//	-t int      request timeout (seconds, 0 = none)
//	-r string   directory for downloaded reports
//	-l string   log level (debug, info, warn, error)
//
// # JSON schema
//
//	{
//	  "api_base_url": "https://attendance.example.edu",
//	  "store_path": "attendance.db",
//	  "request_timeout": "30s",
//	  "reports_dir": "reports",
//	  "log_level": "info",
//	  "log_format": "json",
//	  "s3_bucket": "attendance-reports"
//	}
package config
