package clock

import "time"

// Clock provides the current time. The scrape pipeline reads it once per
// request to derive the query window.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time in UTC
type RealClock struct{}

// Now returns the current system time in UTC
func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed is a Clock frozen at a single instant
type Fixed time.Time

// Now returns the frozen instant
func (f Fixed) Now() time.Time {
	return time.Time(f)
}
