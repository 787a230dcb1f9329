// Package stacktrace trims runtime stacks down to frames from this module.
package stacktrace

import "strings"

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" entries for every
// file frame in stack that lives under an internal/ directory.
func InternalPaths(stack []byte) []string {
	var paths []string

	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, ".go:") {
			continue
		}

		_, rest, ok := strings.Cut(line, "/internal/")
		if !ok {
			continue
		}

		frame, _, _ := strings.Cut(rest, " ")
		paths = append(paths, "internal/"+frame)
	}

	return paths
}
