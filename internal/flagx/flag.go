// Package flagx lets several components parse their own flags out of one
// shared os.Args without tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigFlags are the flags that select a JSON configuration file.
var ConfigFlags = []string{"-c", "-config"}

// FilterArgs returns the subset of args that belongs to allowedFlags,
// keeping each flag's value when it is given as the next argument.
//
// Both "-c conf.json" and "-config=conf.json" forms are recognised; a
// following argument that starts with "-" is never taken as a value.
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	filtered, _ := split(args, allowedFlags)
	return filtered
}

// Positional returns the arguments that are neither flags nor values of
// knownFlags, in their original order. Unknown flags are dropped, but a value
// following an unknown flag is kept as positional, so pass every flag the
// program understands.
func Positional(args []string, knownFlags []string) []string {
	_, rest := split(args, knownFlags)
	return rest
}

func split(args []string, allowedFlags []string) (filtered, rest []string) {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if !strings.HasPrefix(arg, "-") {
			rest = append(rest, arg)
			continue
		}

		// "-flag=value"
		if name, _, ok := strings.Cut(arg, "="); ok {
			if _, known := allowed[name]; known {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, known := allowed[arg]; !known {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered, rest
}

// JSONConfigPath returns the value of -c / -config from os.Args, or "" when
// neither is present.
func JSONConfigPath() string {
	return jsonConfigPath(os.Args[1:])
}

func jsonConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFlags))

	return path
}
