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
//	-a string   bind address (e.g., "127.0.0.1:8000")
//	-s string   token signing secret
//	-t int      access token validity, minutes
//	-k float    shortage threshold, percent
//	-l string   log level
//	-f string   log format ("text" or "json")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-k", "-l", "-f"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Address, "a", config.Address, "address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	validity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	fs.Float64Var(&config.ShortageThreshold, "k", config.ShortageThreshold, "shortage threshold (percent)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*validity) * time.Minute
}
