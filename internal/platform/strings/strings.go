// Package strings holds the small string checks module wiring and repos share
package strings

import std "strings"

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a route root like /kits: one leading slash, no trailing one
// panics if nothing is left after trimming
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// Deref returns "" if ps is nil, else *ps
// nullable text columns scan into *string and leave through here
func Deref(ps *string) string {
	if ps == nil {
		return ""
	}
	return *ps
}

// NullIfBlank returns nil for a whitespace-only s so it binds as SQL NULL
func NullIfBlank(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}
