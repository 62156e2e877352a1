package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("ATTENDANCE_API_URL", "http://env:8000")
	t.Setenv("ATTENDANCE_EPHEMERAL", "true")
	t.Setenv("ATTENDANCE_REQUEST_TIMEOUT", "5s")
	t.Setenv("ATTENDANCE_S3_BUCKET", "b")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://env:8000", cfg.APIBaseURL)
	assert.True(t, cfg.Ephemeral)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "b", cfg.S3Bucket)
	assert.Equal(t, "attendance.db", cfg.StorePath)
}

func TestParseEnv_MalformedValuesIgnored(t *testing.T) {
	t.Setenv("ATTENDANCE_EPHEMERAL", "maybe")
	t.Setenv("ATTENDANCE_REQUEST_TIMEOUT", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.False(t, cfg.Ephemeral)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
