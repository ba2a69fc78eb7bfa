// Package strings provides small string and slice fallbacks
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Or returns def when s is blank, otherwise s
func Or(s, def string) string {
	if std.TrimSpace(s) == "" {
		return def
	}
	return s
}
