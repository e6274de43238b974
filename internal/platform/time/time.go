// Package time holds the clock seam used by session expiry and audit stamps
package time

import "time"

// Clock returns the current time
type Clock func() time.Time

// System is the wall clock in UTC
func System() time.Time { return time.Now().UTC() }

// Or returns c, or System when c is nil
func (c Clock) Or() Clock {
	if c == nil {
		return System
	}
	return c
}

// Fixed returns a clock stuck at t, advanced by the returned func
func Fixed(t time.Time) (Clock, func(time.Duration)) {
	now := t
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}
