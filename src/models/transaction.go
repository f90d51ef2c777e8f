package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types. A transfer-mirrored row carries a non-nil TransferID
// and is owned by its Transfer for lifecycle purposes.
const (
	TransactionIncome  = "IN"
	TransactionExpense = "EX"
)

type Transaction struct {
	ID          int64           `json:"id"`
	LocalID     *int64          `json:"local_id,omitempty"`
	UserID      int64           `json:"user_id"`
	CategoryID  int64           `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	TransferID  *int64          `json:"transfer_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func ValidTransactionType(t string) bool {
	return t == TransactionIncome || t == TransactionExpense
}
