// Package schedule decodes a habit's weekly recurrence and maps calendar
// dates to their day letters.
//
// The letters are fixed for wire compatibility, Monday first:
// L (lunes), M (martes), X (miércoles), J (jueves), V (viernes),
// S (sábado), D (domingo).
package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrBadDays marks an unparseable schedule payload. Batch callers must treat
// it as "habit does not apply", log it, and keep going.
var ErrBadDays = errors.New("bad habit days payload")

// letters indexed Monday=0 .. Sunday=6.
var letters = [7]string{"L", "M", "X", "J", "V", "S", "D"}

var known = map[string]bool{
	"L": true, "M": true, "X": true, "J": true, "V": true, "S": true, "D": true,
}

const DateLayout = "2006-01-02"

// DayLetter returns the letter for t's weekday.
func DayLetter(t time.Time) string {
	// time.Weekday is Sunday=0; shift to Monday-first.
	return letters[(int(t.Weekday())+6)%7]
}

// ParseDays decodes a stored schedule: a JSON array of known day letters.
// Anything else (non-JSON, non-array, unknown or non-string members) fails
// with an error wrapping ErrBadDays.
func ParseDays(raw string) ([]string, error) {
	var days []string
	if err := json.Unmarshal([]byte(raw), &days); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDays, err)
	}
	if days == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrBadDays)
	}
	for _, d := range days {
		if !known[d] {
			return nil, fmt.Errorf("%w: unknown day letter %q", ErrBadDays, d)
		}
	}
	return days, nil
}

// Applies reports whether the schedule includes t's weekday. An unparseable
// schedule never applies; callers that want the reason parse first.
func Applies(raw string, t time.Time) bool {
	days, err := ParseDays(raw)
	if err != nil {
		return false
	}
	return Contains(days, DayLetter(t))
}

// Contains reports whether the decoded day list includes the letter.
func Contains(days []string, letter string) bool {
	for _, d := range days {
		if d == letter {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DaysInMonth returns the number of calendar days in (year, month),
// leap-year aware.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
