// Package recurrence wraps RRULE (RFC 5545) schedule strings behind the
// two operations the rest of the server needs: validation at write time
// and next-occurrence evaluation at posting time.
package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Validate reports whether rule parses as a valid RRULE string, e.g.
// "FREQ=MONTHLY;BYMONTHDAY=1". Invalid rules are rejected when a recurring
// transaction is created or updated, never at posting time.
func Validate(rule string) error {
	if _, err := rrule.StrToRRule(rule); err != nil {
		return fmt.Errorf("invalid rrule string: %w", err)
	}
	return nil
}

// NextAfter anchors rule at the given date (midnight UTC) and returns the
// first occurrence strictly after it, normalized back to a plain calendar
// date. The second return is false when the rule has no later occurrence.
func NextAfter(rule string, after time.Time) (time.Time, bool, error) {
	r, err := rrule.StrToRRule(rule)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid rrule string: %w", err)
	}

	dtstart := time.Date(after.Year(), after.Month(), after.Day(), 0, 0, 0, 0, time.UTC)
	r.DTStart(dtstart)

	next := r.After(dtstart, false)
	if next.IsZero() {
		return time.Time{}, false, nil
	}
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, time.UTC), true, nil
}

// Advance steps a schedule past the occurrence at next. It returns the
// following occurrence and whether the schedule remains active: a rule
// with no later occurrence, or whose next date would exceed endDate,
// deactivates and keeps its last occurrence unchanged.
func Advance(rule string, next time.Time, endDate *time.Time) (time.Time, bool, error) {
	following, ok, err := NextAfter(rule, next)
	if err != nil {
		return time.Time{}, false, err
	}
	if !ok {
		return next, false, nil
	}
	if endDate != nil && following.After(*endDate) {
		return next, false, nil
	}
	return following, true, nil
}
