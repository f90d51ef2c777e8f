package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type SavingsGoal struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetDate    *time.Time      `json:"target_date"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// derived, filled at read time
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// Derive computes remaining_amount, floored at zero.
func (g *SavingsGoal) Derive() {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	g.RemainingAmount = remaining
}
