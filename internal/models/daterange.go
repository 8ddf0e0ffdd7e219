package models

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrEmptyRange    = errors.New("date_to must be later than date_from")
	ErrPastDate      = errors.New("date_from must be tomorrow or later")
	ErrDateTooFar    = errors.New("date_from is too far in the future")
	ErrInvalidFormat = errors.New("invalid date format; expected YYYY-MM-DD")
)

// DateRange is a half-open calendar interval [From, To): To is the checkout
// day and never conflicts with a check-in on the same day.
type DateRange struct {
	From time.Time
	To   time.Time
}

func ParseDateRange(fromStr, toStr string) (DateRange, error) {
	from, err := time.Parse(DateLayout, fromStr)
	if err != nil {
		return DateRange{}, ErrInvalidFormat
	}
	to, err := time.Parse(DateLayout, toStr)
	if err != nil {
		return DateRange{}, ErrInvalidFormat
	}
	return DateRange{From: from, To: to}, nil
}

// Validate checks ordering and the booking horizon against an explicit clock
// value. Callers pass time.Now(); tests pass a fixed date.
func (r DateRange) Validate(now time.Time, maxAdvanceDays int) error {
	if !r.From.Before(r.To) {
		return ErrEmptyRange
	}

	today := Day(now)
	if !r.From.After(today) {
		return ErrPastDate
	}

	if maxAdvanceDays > 0 && r.From.After(today.AddDate(0, 0, maxAdvanceDays)) {
		return ErrDateTooFar
	}
	return nil
}

// Days returns the number of nights covered by the range.
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours() / 24)
}

// Overlaps reports whether an existing booking [existingFrom, existingTo)
// intersects the queried range [queryFrom, queryTo). The four cases cover
// full containment in both directions and partial overlap on either edge;
// boundaries follow checkout semantics, so existingTo == queryFrom is not a
// conflict.
func Overlaps(existingFrom, existingTo, queryFrom, queryTo time.Time) bool {
	// existing range fully contains the query range
	if !existingFrom.After(queryFrom) && !existingTo.Before(queryTo) {
		return true
	}
	// query range fully contains the existing range
	if existingFrom.After(queryFrom) && existingTo.Before(queryTo) {
		return true
	}
	// existing range covers the start of the query range
	if !existingFrom.After(queryFrom) && existingTo.After(queryFrom) && existingTo.Before(queryTo) {
		return true
	}
	// existing range covers the end of the query range
	if existingFrom.After(queryFrom) && existingFrom.Before(queryTo) && !existingTo.Before(queryTo) {
		return true
	}
	return false
}

// Day truncates a timestamp to its calendar date in UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
