package util

import "strings"

// NormalizeKey lowercases and trims a string for use as a consistent lookup key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeHost lowercases a host or domain name and strips surrounding
// whitespace and any trailing root dot.
func NormalizeHost(s string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(s), "."))
}
