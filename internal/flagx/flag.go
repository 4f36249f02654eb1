// Package flagx holds small helpers that let several configuration loaders
// share one os.Args without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// DefaultEnvFile is read by the server when -env is not given.
const DefaultEnvFile = ".env"

// FilterArgs keeps only allowedFlags (and their values) from args.
// Both "-f value" and "-f=value" forms are recognised; a following token that
// starts with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// lookupString parses a single string flag known under several names.
// The last occurrence wins; def is returned when none is present.
func lookupString(args []string, names []string, def string) string {
	value := def

	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	allowed := make([]string, 0, len(names))
	for _, n := range names {
		fs.StringVar(&value, n, def, "")
		allowed = append(allowed, "-"+n)
	}
	_ = fs.Parse(FilterArgs(args, allowed))

	return value
}

// JsonConfigFlags returns the JSON config path given with -c or -config,
// or "" when neither is present.
func JsonConfigFlags() string {
	return lookupString(os.Args[1:], []string{"c", "config"}, "")
}

// EnvFileFlag returns the dotenv file path given with -env, falling back to
// DefaultEnvFile.
func EnvFileFlag() string {
	return lookupString(os.Args[1:], []string{"env"}, DefaultEnvFile)
}
