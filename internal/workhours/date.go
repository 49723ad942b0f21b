package workhours

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// NormalizeDate strips any time-of-day suffix from an ISO date or date-time.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		return s[:i]
	}
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}

// parseDay accepts an RFC 3339 date-time or a plain YYYY-MM-DD date.
func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// entryYear reads the year prefix of a normalized date, 0 when absent.
func entryYear(date string) int {
	head, _, _ := strings.Cut(date, "-")
	y, err := strconv.Atoi(head)
	if err != nil {
		return 0
	}
	return y
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
