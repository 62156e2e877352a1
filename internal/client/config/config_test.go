package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8000", c.APIBaseURL)
	assert.Equal(t, "attendance.db", c.StorePath)
	assert.False(t, c.Ephemeral)
	assert.Equal(t, 30*time.Second, c.RequestTimeout)
	assert.Equal(t, "reports", c.ReportsDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "text", c.LogFormat)
	assert.False(t, c.S3Enabled())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Setenv("ATTENDANCE_CONFIG", "")
	t.Setenv("ATTENDANCE_API_URL", "")

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://127.0.0.1:8000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"api_base_url": "http://from-json:1",
		"reports_dir":  "json-reports",
	})

	t.Setenv("ATTENDANCE_CONFIG", "")
	t.Setenv("ATTENDANCE_API_URL", "http://from-env:1")
	t.Setenv("ATTENDANCE_REPORTS_DIR", "env-reports")
	t.Setenv("ATTENDANCE_LOG_LEVEL", "debug")

	os.Args = []string{"testbin", "-c", path, "-u", "http://from-flag:1"}

	cfg := LoadConfig()

	assert.Equal(t, "http://from-flag:1", cfg.APIBaseURL, "flags beat json and env")
	assert.Equal(t, "json-reports", cfg.ReportsDir, "json beats env")
	assert.Equal(t, "debug", cfg.LogLevel, "env beats defaults")
}
