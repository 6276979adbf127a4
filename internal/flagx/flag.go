// Package flagx contains helpers for layered configuration: picking the
// flags one loader owns out of a shared argument list, locating the JSON
// config file, and reading typed environment overrides.
package flagx

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// FilterArgs keeps only the flags listed in allowedFlags, together with
// their values. Both "-f value" and "-f=value" forms are recognised; a
// following token that starts with "-" is never taken as a value.
//
// Each config loader parses its own subset, so flags owned by another
// loader never cause "flag provided but not defined" errors.
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

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFile returns the JSON config path given with -c or -config in args,
// or "" when none is present. The last occurrence wins.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// JsonConfigFlags is ConfigFile applied to the process arguments.
func JsonConfigFlags() string {
	return ConfigFile(os.Args[1:])
}

// EnvString overwrites *dst with the value of key when the variable is set.
func EnvString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

// EnvInt overwrites *dst when key is set to a valid integer. It reports
// false if the variable is set but cannot be parsed.
func EnvInt(dst *int, key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return true
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	*dst = n
	return true
}

// EnvDuration overwrites *dst when key holds a time.ParseDuration string.
// It reports false if the variable is set but cannot be parsed.
func EnvDuration(dst *time.Duration, key string) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return true
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	*dst = d
	return true
}
