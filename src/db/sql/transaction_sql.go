package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrTransferManaged marks a transaction row that mirrors a Transfer and
// therefore cannot be edited or deleted on its own.
var ErrTransferManaged = errors.New("transaction is managed by a transfer")

const transactionColumns = `id, local_id, user_id, category_id, amount, type, description, date, transfer_id, created_at, updated_at`

func scanTransaction(row interface{ Scan(...any) error }, t *models.Transaction) error {
	return row.Scan(
		&t.ID, &t.LocalID, &t.UserID, &t.CategoryID, &t.Amount,
		&t.Type, &t.Description, &t.Date, &t.TransferID,
		&t.CreatedAt, &t.UpdatedAt,
	)
}

// CreateTransaction inserts a user-entered transaction, assigning the next
// per-user local id with optimistic retry on collision.
func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, transaction *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (local_id, user_id, category_id, amount, type, description, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + transactionColumns

	var created models.Transaction
	err := WithLocalID(ctx, []string{"transactions_user_id_local_id_key"},
		func(ctx context.Context) (int64, error) {
			return NextLocalID(ctx, pool, "transactions", transaction.UserID)
		},
		func(ctx context.Context, localID int64) error {
			row := pool.QueryRow(ctx, query,
				localID, transaction.UserID, transaction.CategoryID,
				transaction.Amount, transaction.Type, transaction.Description, transaction.Date,
			)
			return scanTransaction(row, &created)
		},
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int64) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 AND user_id = $2`
	var t models.Transaction
	if err := scanTransaction(pool.QueryRow(ctx, query, transactionID, userID), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// TransactionFilters mirrors the query surface of the transactions list
// endpoint. Nil/empty fields are not applied.
type TransactionFilters struct {
	CategoryID  *int64
	Type        string
	AmountGTE   *decimal.Decimal
	AmountLTE   *decimal.Decimal
	DateGTE     *time.Time
	DateLTE     *time.Time
	Description string
	Ordering    string
}

var transactionOrderings = map[string]string{
	"id":     "id",
	"date":   "date",
	"amount": "amount",
}

func GetAllTransactionsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, f TransactionFilters) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	args := []any{userID}

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.AmountGTE != nil {
		args = append(args, *f.AmountGTE)
		query += fmt.Sprintf(" AND amount >= $%d", len(args))
	}
	if f.AmountLTE != nil {
		args = append(args, *f.AmountLTE)
		query += fmt.Sprintf(" AND amount <= $%d", len(args))
	}
	if f.DateGTE != nil {
		args = append(args, *f.DateGTE)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.DateLTE != nil {
		args = append(args, *f.DateLTE)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	if f.Description != "" {
		args = append(args, "%"+f.Description+"%")
		query += fmt.Sprintf(" AND description ILIKE $%d", len(args))
	}

	query += " ORDER BY " + OrderClause(f.Ordering, transactionOrderings, "id DESC")

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := scanTransaction(rows, &t); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// UpdateTransaction edits a user-entered transaction. Rows mirrored from a
// transfer are refused so the pair cannot drift out of sync.
func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, transaction *models.Transaction) (*models.Transaction, error) {
	existing, err := GetTransactionByID(ctx, pool, transaction.UserID, transaction.ID)
	if err != nil {
		return nil, err
	}
	if existing.TransferID != nil {
		return nil, ErrTransferManaged
	}

	query := `
		UPDATE transactions
		SET category_id = $1, amount = $2, type = $3, description = $4, date = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING ` + transactionColumns

	var updated models.Transaction
	row := pool.QueryRow(ctx, query,
		transaction.CategoryID, transaction.Amount, transaction.Type,
		transaction.Description, transaction.Date, transaction.ID, transaction.UserID,
	)
	if err := scanTransaction(row, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, transactionID int64) error {
	existing, err := GetTransactionByID(ctx, pool, userID, transactionID)
	if err != nil {
		return err
	}
	if existing.TransferID != nil {
		return ErrTransferManaged
	}

	query := `DELETE FROM transactions WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}
