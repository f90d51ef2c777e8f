package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget periods. YEARLY is accepted and stored, but usage is always
// windowed to the current calendar month (see BudgetUsage).
const (
	PeriodMonthly = "M"
	PeriodYearly  = "Y"
)

type Budget struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	CategoryID int64           `json:"category_id"`
	Limit      decimal.Decimal `json:"limit"`
	Period     string          `json:"period"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func ValidBudgetPeriod(p string) bool {
	return p == PeriodMonthly || p == PeriodYearly
}

// BudgetUsage is a Budget annotated with its derived usage fields for the
// current month. The derived fields are recomputed on every read and are
// never stored.
type BudgetUsage struct {
	Budget
	AmountSpent    decimal.Decimal `json:"amount_spent"`
	NetTransfer    decimal.Decimal `json:"net_transfer"`
	EffectiveLimit decimal.Decimal `json:"effective_limit"`
	Remaining      decimal.Decimal `json:"remaining"`
	PercentUsed    float64         `json:"percent_used"`
}

var hundred = decimal.NewFromInt(100)

// ComputeBudgetUsage derives the usage fields from the raw monthly sums:
// spent excludes transfer-mirrored transactions, while inbound/outbound
// transfer totals adjust the effective limit. A zero effective limit
// yields percent_used 0 rather than dividing by zero.
func ComputeBudgetUsage(b Budget, spent, inbound, outbound decimal.Decimal) BudgetUsage {
	net := inbound.Sub(outbound)
	effective := b.Limit.Add(net)
	remaining := effective.Sub(spent)

	percent := 0.0
	if !effective.IsZero() {
		percent, _ = spent.Div(effective).Mul(hundred).Float64()
	}

	return BudgetUsage{
		Budget:         b,
		AmountSpent:    spent,
		NetTransfer:    net,
		EffectiveLimit: effective,
		Remaining:      remaining,
		PercentUsed:    percent,
	}
}

// MonthWindow returns the half-open [first of month, first of next month)
// interval containing asOf, in UTC.
func MonthWindow(asOf time.Time) (time.Time, time.Time) {
	start := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
