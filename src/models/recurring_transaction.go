package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringTransaction is a blueprint for posting future Transactions.
// NextOccurrence is advanced by the recurrence poster; the row is
// deactivated once the rule is exhausted or EndDate would be exceeded.
type RecurringTransaction struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	CategoryID     int64           `json:"category_id"`
	Amount         decimal.Decimal `json:"amount"`
	Type           string          `json:"type"`
	Description    string          `json:"description"`
	RRule          string          `json:"rrule"`
	NextOccurrence time.Time       `json:"next_occurrence"`
	EndDate        *time.Time      `json:"end_date"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PostedOccurrence describes one transaction the poster created (or, in a
// dry run, would have created).
type PostedOccurrence struct {
	RecurringID int64           `json:"recurring_id"`
	UserID      int64           `json:"user_id"`
	CategoryID  int64           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

type PostResult struct {
	Posted   int                `json:"posted"`
	Date     string             `json:"date"`
	Postings []PostedOccurrence `json:"postings,omitempty"`
}
