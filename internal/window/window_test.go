package window

import (
	"strings"
	"testing"
	"time"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantFrom string
		wantTo   string
	}{
		{
			name:     "mid month",
			now:      time.Date(2024, 3, 15, 13, 45, 12, 0, time.UTC),
			wantFrom: "2024-02-14T00:00:00Z",
			wantTo:   "2024-03-15T00:00:00Z",
		},
		{
			name:     "exactly midnight",
			now:      time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			wantFrom: "2024-02-14T00:00:00Z",
			wantTo:   "2024-03-15T00:00:00Z",
		},
		{
			name:     "last nanosecond of day",
			now:      time.Date(2024, 3, 15, 23, 59, 59, 999999999, time.UTC),
			wantFrom: "2024-02-14T00:00:00Z",
			wantTo:   "2024-03-15T00:00:00Z",
		},
		{
			name:     "year boundary",
			now:      time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
			wantFrom: "2024-12-11T00:00:00Z",
			wantTo:   "2025-01-10T00:00:00Z",
		},
		{
			name:     "leap day",
			now:      time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC),
			wantFrom: "2024-01-30T00:00:00Z",
			wantTo:   "2024-02-29T00:00:00Z",
		},
		{
			name:     "march after leap year",
			now:      time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC),
			wantFrom: "2024-01-31T00:00:00Z",
			wantTo:   "2024-03-01T00:00:00Z",
		},
		{
			name:     "march in non leap year",
			now:      time.Date(2023, 3, 1, 6, 0, 0, 0, time.UTC),
			wantFrom: "2023-01-30T00:00:00Z",
			wantTo:   "2023-03-01T00:00:00Z",
		},
		{
			name:     "non UTC input uses the UTC calendar day",
			now:      time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("UTC-5", -5*3600)),
			wantFrom: "2024-02-15T00:00:00Z",
			wantTo:   "2024-03-16T00:00:00Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Calculate(tt.now)

			if got := w.FromString(); got != tt.wantFrom {
				t.Errorf("From = %s, want %s", got, tt.wantFrom)
			}
			if got := w.ToString(); got != tt.wantTo {
				t.Errorf("To = %s, want %s", got, tt.wantTo)
			}
		})
	}
}

func TestCalculate_Invariants(t *testing.T) {
	start := time.Date(2023, 12, 1, 17, 3, 0, 0, time.UTC)

	// Two years of consecutive days covers every month length and a leap year
	for i := 0; i < 730; i++ {
		now := start.AddDate(0, 0, i)
		w := Calculate(now)

		if w.From.Location() != time.UTC || w.To.Location() != time.UTC {
			t.Fatalf("%s: window not in UTC: %v", now, w)
		}
		if got := w.To.Sub(w.From); got != Days*24*time.Hour {
			t.Fatalf("%s: window length = %v, want %v", now, got, Days*24*time.Hour)
		}
		if w.To.After(now) {
			t.Fatalf("%s: To %s is after now", now, w.To)
		}
		if now.Sub(w.To) >= 24*time.Hour {
			t.Fatalf("%s: To %s is not today's midnight", now, w.To)
		}
		for _, b := range []time.Time{w.From, w.To} {
			if b.Hour() != 0 || b.Minute() != 0 || b.Second() != 0 || b.Nanosecond() != 0 {
				t.Fatalf("%s: boundary %s is not midnight", now, b)
			}
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"utc midnight", time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), "2024-02-14T00:00:00Z"},
		{"sub-second truncated", time.Date(2024, 2, 14, 1, 2, 3, 987654321, time.UTC), "2024-02-14T01:02:03Z"},
		{"positive offset", time.Date(2024, 2, 14, 2, 0, 0, 0, time.FixedZone("CET", 3600)), "2024-02-14T01:00:00Z"},
		{"negative offset", time.Date(2024, 2, 13, 20, 0, 0, 0, time.FixedZone("EST", -5*3600)), "2024-02-14T01:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTimestamp(tt.in)
			if got != tt.want {
				t.Errorf("FormatTimestamp() = %s, want %s", got, tt.want)
			}
			if !strings.HasSuffix(got, "Z") || strings.Contains(got, "+") {
				t.Errorf("FormatTimestamp() = %s, want literal Z designator", got)
			}
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	w := Calculate(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"first day", time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), true},
		{"last day", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"today excluded", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"day before window", time.Date(2024, 2, 13, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestWindow_String(t *testing.T) {
	w := Calculate(time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC))
	want := "[2024-02-14T00:00:00Z, 2024-03-15T00:00:00Z)"
	if got := w.String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
