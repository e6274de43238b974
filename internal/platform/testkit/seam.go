package testkit

import "testing"

// Swap replaces a package var (usually a func seam) until t ends
func Swap[T any](t *testing.T, target *T, replacement T) {
	t.Helper()
	orig := *target
	*target = replacement
	t.Cleanup(func() { *target = orig })
}
