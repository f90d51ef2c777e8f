package models

import "github.com/shopspring/decimal"

// CategoryTotal is one row of the per-category spending breakdown.
type CategoryTotal struct {
	CategoryID   int64           `json:"category_id"`
	CategoryName string          `json:"category_name"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
}

// GoalProgress reports how far along a savings goal is, as a percentage
// of its target. A zero target reports 0.0.
type GoalProgress struct {
	GoalID        int64           `json:"goal_id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	PercentFunded float64         `json:"percent_funded"`
}

// Summary is the account overview for a date range. Transfer-managed
// transactions are excluded from every total, so moving money between
// accounts never shows up as income or spending.
type Summary struct {
	Start        string          `json:"start"`
	End          string          `json:"end"`
	IncomeTotal  decimal.Decimal `json:"income_total"`
	ExpenseTotal decimal.Decimal `json:"expense_total"`
	Net          decimal.Decimal `json:"net"`
	ByCategory   []CategoryTotal `json:"by_category"`
	Goals        []GoalProgress  `json:"goals"`
}
