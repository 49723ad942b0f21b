package workhours

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrUpstream = errors.New("records service unavailable")
)

type ValidationKind string

const (
	BadDateFormat      ValidationKind = "bad_date_format"
	MissingDescription ValidationKind = "missing_description"
	InvalidHours       ValidationKind = "invalid_hours"
	YearOutOfRange     ValidationKind = "year_out_of_range"
	DuplicateForDate   ValidationKind = "duplicate_for_date"
)

// ValidationError rejects a submission with a message meant for the member.
type ValidationError struct {
	Kind    ValidationKind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(kind ValidationKind, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Message: msg}
}
