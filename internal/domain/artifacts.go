package domain

import "regexp"

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SanitizeName turns a scenario name into a file name stem.
// Every run of characters outside [A-Za-z0-9-_] collapses to a single '_'.
func SanitizeName(name string) string {
	safe := unsafeNameChars.ReplaceAllString(name, "_")
	if safe == "" {
		return "unnamed"
	}
	return safe
}
