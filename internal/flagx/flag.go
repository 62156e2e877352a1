// Package flagx lets several loaders share os.Args without tripping over
// each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigFileEnv names the environment variable consulted when no config file
// flag is given.
const ConfigFileEnv = "ATTENDANCE_CONFIG"

// FilterArgs returns only the allowed flags (and their values) from args.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      -config=conf.json
//
// Boolean flags listed in boolFlags never consume the following argument.
func FilterArgs(args []string, allowedFlags []string, boolFlags ...string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}
	bools := make(map[string]struct{}, len(boolFlags))
	for _, f := range boolFlags {
		bools[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if _, isBool := bools[arg]; isBool {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFilePath returns the JSON config path given with -c or -config, or
// the value of ATTENDANCE_CONFIG when neither flag is present.
func ConfigFilePath() string {
	var config string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&config, "config", "", "Path to config file")
	fs.StringVar(&config, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	if config == "" {
		config = os.Getenv(ConfigFileEnv)
	}
	return config
}
