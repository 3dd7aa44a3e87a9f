package domain

import (
	"strings"
	"time"
	_ "time/tzdata"
)

// ComposeSchedule combines a local calendar date ("2006-01-02") and wall-clock
// time ("15:04") in loc into an absolute UTC instant. The offset comes only
// from loc; no correction is applied on top of it.
func ComposeSchedule(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, NewValidationError("time zone is required")
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(date)+" "+strings.TrimSpace(clock), loc)
	if err != nil {
		return time.Time{}, NewValidationError("invalid date %q or time %q", date, clock)
	}
	return t.UTC(), nil
}

// LoadLocation resolves an IANA zone name, falling back to fallback when name
// is empty.
func LoadLocation(name string, fallback *time.Location) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		if fallback == nil {
			return time.UTC, nil
		}
		return fallback, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, NewValidationError("unknown time zone %q", name)
	}
	return loc, nil
}
