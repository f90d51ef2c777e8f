package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer moves money between two categories of the same user. Once
// created it owns exactly two mirrored Transaction rows: an EX row on the
// source category and an IN row on the destination category.
type Transfer struct {
	ID                    int64           `json:"id"`
	LocalID               *int64          `json:"local_id,omitempty"`
	UserID                int64           `json:"user_id"`
	SourceCategoryID      int64           `json:"source_category"`
	DestinationCategoryID int64           `json:"destination_category"`
	Amount                decimal.Decimal `json:"amount"`
	Date                  time.Time       `json:"date"`
	Description           string          `json:"description"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`

	// ids of the mirrored transactions, ordered by id
	TransactionIDs []int64 `json:"transactions"`
}
