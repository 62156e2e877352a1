package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/attendance/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-u string   backend base URL
//	-s string   credential store path
//	-e          in-memory credential store
//	-t int      request timeout in seconds
//	-r string   reports directory
//	-l string   log level
//
// os.Args is filtered with flagx.FilterArgs first so that flags owned by
// other loaders (-c) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-u", "-s", "-e", "-t", "-r", "-l"}, "-e")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "u", cfg.APIBaseURL, "base URL of the attendance backend")
	fs.StringVar(&cfg.StorePath, "s", cfg.StorePath, "path of the local credential store")
	fs.BoolVar(&cfg.Ephemeral, "e", cfg.Ephemeral, "keep the credential in memory only")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds, 0 = none)")
	fs.StringVar(&cfg.ReportsDir, "r", cfg.ReportsDir, "directory for downloaded reports")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
