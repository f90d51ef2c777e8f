package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    string
		wantErr bool
	}{
		{name: "monthly on the first", rule: "FREQ=MONTHLY;BYMONTHDAY=1", wantErr: false},
		{name: "weekly on friday", rule: "FREQ=WEEKLY;BYDAY=FR", wantErr: false},
		{name: "daily with count", rule: "FREQ=DAILY;COUNT=5", wantErr: false},
		{name: "bogus frequency", rule: "FREQ=BOGUS", wantErr: true},
		{name: "empty string", rule: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.rule)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNextAfter(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		after    time.Time
		wantNext time.Time
		wantOK   bool
	}{
		{
			name:     "monthly first from mid month",
			rule:     "FREQ=MONTHLY;BYMONTHDAY=1",
			after:    date(2025, time.January, 15),
			wantNext: date(2025, time.February, 1),
			wantOK:   true,
		},
		{
			name:     "monthly first from the first skips itself",
			rule:     "FREQ=MONTHLY;BYMONTHDAY=1",
			after:    date(2025, time.February, 1),
			wantNext: date(2025, time.March, 1),
			wantOK:   true,
		},
		{
			name:     "daily",
			rule:     "FREQ=DAILY",
			after:    date(2025, time.June, 10),
			wantNext: date(2025, time.June, 11),
			wantOK:   true,
		},
		{
			name:     "year rollover",
			rule:     "FREQ=MONTHLY;BYMONTHDAY=1",
			after:    date(2025, time.December, 20),
			wantNext: date(2026, time.January, 1),
			wantOK:   true,
		},
		{
			name:   "exhausted count rule",
			rule:   "FREQ=MONTHLY;COUNT=1",
			after:  date(2025, time.March, 1),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok, err := NextAfter(tt.rule, tt.after)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantNext, next)
			}
		})
	}
}

func TestNextAfterInvalidRule(t *testing.T) {
	_, _, err := NextAfter("FREQ=BOGUS", date(2025, time.January, 1))
	assert.Error(t, err)
}

func TestAdvance(t *testing.T) {
	endJan15 := date(2025, time.January, 15)

	tests := []struct {
		name          string
		rule          string
		next          time.Time
		endDate       *time.Time
		wantFollowing time.Time
		wantActive    bool
	}{
		{
			name:          "monthly stays active",
			rule:          "FREQ=MONTHLY;BYMONTHDAY=1",
			next:          date(2025, time.January, 1),
			wantFollowing: date(2025, time.February, 1),
			wantActive:    true,
		},
		{
			name:          "count exhaustion keeps last occurrence",
			rule:          "FREQ=MONTHLY;COUNT=1",
			next:          date(2025, time.March, 1),
			wantFollowing: date(2025, time.March, 1),
			wantActive:    false,
		},
		{
			name:          "end date overrun deactivates",
			rule:          "FREQ=MONTHLY;BYMONTHDAY=1",
			next:          date(2025, time.January, 1),
			endDate:       &endJan15,
			wantFollowing: date(2025, time.January, 1),
			wantActive:    false,
		},
		{
			name:          "end date exactly on next occurrence stays active",
			rule:          "FREQ=MONTHLY;BYMONTHDAY=1",
			next:          date(2025, time.January, 1),
			endDate:       ptr(date(2025, time.February, 1)),
			wantFollowing: date(2025, time.February, 1),
			wantActive:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			following, active, err := Advance(tt.rule, tt.next, tt.endDate)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantActive, active)
			assert.Equal(t, tt.wantFollowing, following)
		})
	}
}

func ptr(t time.Time) *time.Time { return &t }
