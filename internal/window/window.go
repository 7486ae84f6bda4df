// Package window derives the trailing query window used by every scrape:
// the last 30 complete UTC days, excluding today.
package window

import (
	"fmt"
	"time"
)

// Days is the length of the trailing window in calendar days
const Days = 30

// TimestampLayout is the timestamp format accepted by the Cost Management
// API: second precision and a literal UTC designator
const TimestampLayout = "2006-01-02T15:04:05Z"

// Window is a half-open [From, To) range of whole UTC days
type Window struct {
	From time.Time
	To   time.Time
}

// Calculate returns the window ending at midnight UTC of the calendar day
// containing now and starting Days calendar days earlier
func Calculate(now time.Time) Window {
	now = now.UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return Window{
		From: to.AddDate(0, 0, -Days),
		To:   to,
	}
}

// Contains reports whether t falls inside [From, To)
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}

// FromString returns From in the API timestamp format
func (w Window) FromString() string {
	return FormatTimestamp(w.From)
}

// ToString returns To in the API timestamp format
func (w Window) ToString() string {
	return FormatTimestamp(w.To)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.FromString(), w.ToString())
}

// FormatTimestamp renders t in UTC with second precision and a trailing Z
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
