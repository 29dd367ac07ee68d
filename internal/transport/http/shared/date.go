package shared

import (
	"errors"
	"time"
)

var ErrBadCompetence = errors.New("competence must be YYYY-MM")

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParseCompetence validates a YYYY-MM competence label and returns the first
// day of that month.
func ParseCompetence(value string) (time.Time, error) {
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, ErrBadCompetence
	}
	return parsed, nil
}
