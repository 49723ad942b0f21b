package workhours

import "time"

const (
	ReasonAge       = "age exemption"
	ReasonLateEntry = "late entry"
)

// Policy holds the club's work-hour obligation rules.
type Policy struct {
	StandardHours float64
	// Members owe hours in years where MinAge <= year-birthYear < MaxAge.
	MinAge int
	MaxAge int
}

var DefaultPolicy = Policy{StandardHours: 8, MinAge: 17, MaxAge: 70}

// RequiredHours applies DefaultPolicy.
func RequiredHours(m Member, year int) (float64, string) {
	return DefaultPolicy.RequiredHours(m, year)
}

// RequiredHours returns the hours m owes in year and, when they owe nothing,
// the exemption reason. Missing or malformed birth dates count as eligible.
func (p Policy) RequiredHours(m Member, year int) (float64, string) {
	if birth, ok := parseDay(m.BirthDate); ok {
		age := year - birth.Year()
		if age < p.MinAge || age >= p.MaxAge {
			return 0, ReasonAge
		}
	}
	if joined, ok := parseDay(m.JoinDate); ok {
		cutoff := time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC)
		day := time.Date(joined.Year(), joined.Month(), joined.Day(), 0, 0, 0, 0, time.UTC)
		if !day.Before(cutoff) {
			return 0, ReasonLateEntry
		}
	}
	return p.StandardHours, ""
}
