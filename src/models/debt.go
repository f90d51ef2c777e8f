package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Debt struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	Name           string          `json:"name"`
	Principal      decimal.Decimal `json:"principal"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	MinimumPayment decimal.Decimal `json:"minimum_payment"`
	OpenedDate     *time.Time      `json:"opened_date"`
	CategoryID     *int64          `json:"category_id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Balance = principal - sum(payments), computed at read time from the
	// payment rows. There is no stored running balance.
	Balance decimal.Decimal `json:"balance"`
}

type Payment struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	DebtID    int64           `json:"debt_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Memo      string          `json:"memo"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
