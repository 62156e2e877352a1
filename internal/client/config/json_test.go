package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	t.Setenv("ATTENDANCE_CONFIG", "")

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_base_url":    "https://attendance.example.edu",
		"request_timeout": "10s",
		"ephemeral":       true,
		"log_format":      "json",
		"s3_bucket":       "reports-bucket",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{StorePath: "kept.db"}
		parseJson(cfg)

		assert.Equal(t, "https://attendance.example.edu", cfg.APIBaseURL)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.True(t, cfg.Ephemeral)
		assert.Equal(t, "json", cfg.LogFormat)
		assert.True(t, cfg.S3Enabled())
		assert.Equal(t, "kept.db", cfg.StorePath, "absent keys keep earlier values")
	})

	t.Run("loads from env variable", func(t *testing.T) {
		t.Setenv("ATTENDANCE_CONFIG", pathFlag)
		os.Args = []string{"testbin"}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "https://attendance.example.edu", cfg.APIBaseURL)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			APIBaseURL:     "http://defaults:1234",
			RequestTimeout: 42 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234", cfg.APIBaseURL)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
