package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-u", "http://10.0.0.1:9000", "-s", "/tmp/a.db", "-e", "-t", "10", "-r", "/tmp/r", "-l", "debug"},
			expected: &Config{
				APIBaseURL:     "http://10.0.0.1:9000",
				StorePath:      "/tmp/a.db",
				Ephemeral:      true,
				RequestTimeout: 10 * time.Second,
				ReportsDir:     "/tmp/r",
				LogLevel:       "debug",
			},
		},
		{
			name:     "foreign flags ignored",
			args:     []string{"cmd", "-c", "cfg.json", "-u", "http://h", "-x", "1"},
			expected: &Config{APIBaseURL: "http://h"},
		},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true, expected: &Config{}},
	}

	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(tt.expected, config))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
