// Package flagx helps several flag sets share one os.Args without tripping
// over each other's unknown flags.
package flagx

import (
	"flag"
	"os"
	"slices"
	"strings"
)

// FilterArgs keeps only the allowed flags (and their values) from args.
// Both "-f value" and "-f=value" forms are understood; a following token
// that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if slices.Contains(allowedFlags, name) {
				filtered = append(filtered, arg)
			}
			continue
		}

		if !slices.Contains(allowedFlags, arg) {
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

// JSONConfigPath returns the value of -c / -config found in args, or "".
func JSONConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// JsonConfigFlags is JSONConfigPath over the process arguments.
func JsonConfigFlags() string {
	return JSONConfigPath(os.Args[1:])
}
