package workhours

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Submission is a work-hour entry as sent by a member. Hours is the raw
// wire value, number or numeric string.
type Submission struct {
	Date        string
	Description string
	Hours       string
}

// Validated is a submission that passed every check and is ready to store.
type Validated struct {
	Date        string
	Description string
	Hours       float64
}

const (
	msgBadDate     = "Ungültiges Datumsformat. Bitte verwenden Sie YYYY-MM-DD."
	msgNoActivity  = "Bitte geben Sie eine Tätigkeit an."
	msgBadHours    = "Bitte geben Sie eine positive Stundenanzahl an."
	msgGraceYears  = "Arbeitsstunden können nur für %d oder %d (Nachfrist bis Ende Januar) eingetragen werden."
	msgCurrentYear = "Arbeitsstunden können nur für das aktuelle Jahr %d eingetragen werden."
	msgDuplicate   = "Für dieses Datum existiert bereits ein Eintrag. Pro Person und Tag ist nur ein Eintrag erlaubt."
)

// CheckFields runs the checks that need no lookup: date format, description,
// hours and the year window relative to today.
func CheckFields(sub Submission, today time.Time) (Validated, error) {
	day, ok := submittedDay(sub.Date)
	if !ok {
		return Validated{}, invalid(BadDateFormat, msgBadDate)
	}
	date := day.Format(dayLayout)

	desc := strings.TrimSpace(sub.Description)
	if desc == "" {
		return Validated{}, invalid(MissingDescription, msgNoActivity)
	}

	hours, err := strconv.ParseFloat(strings.TrimSpace(sub.Hours), 64)
	if err != nil || math.IsNaN(hours) || math.IsInf(hours, 0) || hours <= 0 {
		return Validated{}, invalid(InvalidHours, msgBadHours)
	}

	cy := today.Year()
	minYear := cy
	if today.Month() == time.January {
		minYear = cy - 1
	}
	if day.Year() < minYear {
		if today.Month() == time.January {
			return Validated{}, invalid(YearOutOfRange, fmt.Sprintf(msgGraceYears, cy, cy-1))
		}
		return Validated{}, invalid(YearOutOfRange, fmt.Sprintf(msgCurrentYear, cy))
	}

	return Validated{Date: date, Description: desc, Hours: hours}, nil
}

// submittedDay accepts YYYY-MM-DD or a full RFC 3339 date-time, whose
// calendar day is taken as written.
func submittedDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// ValidateSubmission runs CheckFields and then rejects a second entry for the
// same member and day. excludeID skips the entry being edited.
func ValidateSubmission(ctx context.Context, lookup EntryLookup, memberID string, sub Submission, today time.Time, excludeID string) (Validated, error) {
	v, err := CheckFields(sub, today)
	if err != nil {
		return Validated{}, err
	}

	existing, err := lookup.WorkHoursForMember(ctx, memberID, entryYear(v.Date))
	if err != nil {
		return Validated{}, fmt.Errorf("%w: list entries: %v", ErrUpstream, err)
	}
	for _, e := range existing {
		if e.ID != "" && e.ID == excludeID {
			continue
		}
		if NormalizeDate(e.Date) == v.Date {
			return Validated{}, invalid(DuplicateForDate, msgDuplicate)
		}
	}
	return v, nil
}
