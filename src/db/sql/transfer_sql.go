package db

import (
	"context"
	"fmt"
	"time"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transferColumns = `id, local_id, user_id, source_category_id, destination_category_id, amount, date, description, created_at, updated_at`

func scanTransfer(row interface{ Scan(...any) error }, t *models.Transfer) error {
	return row.Scan(
		&t.ID, &t.LocalID, &t.UserID, &t.SourceCategoryID, &t.DestinationCategoryID,
		&t.Amount, &t.Date, &t.Description, &t.CreatedAt, &t.UpdatedAt,
	)
}

func linkedTransactionIDs(ctx context.Context, q Querier, transferID int64) ([]int64, error) {
	rows, err := q.Query(ctx, `SELECT id FROM transactions WHERE transfer_id = $1 ORDER BY id`, transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func insertMirroredTransaction(ctx context.Context, q Querier, t *models.Transfer, txType string) (int64, error) {
	categoryID := t.SourceCategoryID
	if txType == models.TransactionIncome {
		categoryID = t.DestinationCategoryID
	}

	localID, err := NextLocalID(ctx, q, "transactions", t.UserID)
	if err != nil {
		return 0, err
	}

	var id int64
	err = q.QueryRow(ctx, `
		INSERT INTO transactions (local_id, user_id, category_id, amount, type, description, date, transfer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		localID, t.UserID, categoryID, t.Amount, txType, t.Description, t.Date, t.ID,
	).Scan(&id)
	return id, err
}

// CreateTransfer inserts the transfer row and its mirrored transaction
// pair (EX on source, then IN on destination) in one atomic transaction.
// A concurrent reader sees either nothing or the fully paired state.
func CreateTransfer(ctx context.Context, pool *pgxpool.Pool, transfer *models.Transfer) (*models.Transfer, error) {
	var created models.Transfer

	// the closure writes local_ids in two tables: the transfer row and its
	// mirrored transaction pair. A lost race on either constraint re-begins
	// the tx and recomputes all three ids.
	err := WithLocalID(ctx, []string{"transfers_user_id_local_id_key", "transactions_user_id_local_id_key"},
		func(ctx context.Context) (int64, error) {
			return NextLocalID(ctx, pool, "transfers", transfer.UserID)
		},
		func(ctx context.Context, localID int64) error {
			tx, err := pool.Begin(ctx)
			if err != nil {
				return err
			}
			defer tx.Rollback(ctx)

			row := tx.QueryRow(ctx, `
				INSERT INTO transfers (local_id, user_id, source_category_id, destination_category_id, amount, date, description)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING `+transferColumns,
				localID, transfer.UserID, transfer.SourceCategoryID, transfer.DestinationCategoryID,
				transfer.Amount, transfer.Date, transfer.Description,
			)
			if err := scanTransfer(row, &created); err != nil {
				return err
			}

			exID, err := insertMirroredTransaction(ctx, tx, &created, models.TransactionExpense)
			if err != nil {
				return err
			}
			inID, err := insertMirroredTransaction(ctx, tx, &created, models.TransactionIncome)
			if err != nil {
				return err
			}
			created.TransactionIDs = []int64{exID, inID}

			return tx.Commit(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// TransferPatch carries the subset of transfer fields an update supplies.
// Nil fields are left unchanged.
type TransferPatch struct {
	SourceCategoryID      *int64
	DestinationCategoryID *int64
	Amount                *decimal.Decimal
	Date                  *time.Time
	Description           *string
}

// transferSyncPlan maps the observed linked rows onto the canonical pair.
// Type is the identity key: the oldest EX row backs the source side, the
// oldest IN row the destination side, everything else is pruned. A nil
// side means that row is missing and must be recreated (healing).
type transferSyncPlan struct {
	expenseID *int64
	incomeID  *int64
	prune     []int64
}

func planTransferSync(linked []models.Transaction) transferSyncPlan {
	var plan transferSyncPlan
	for _, t := range linked {
		id := t.ID
		switch {
		case t.Type == models.TransactionExpense && plan.expenseID == nil:
			plan.expenseID = &id
		case t.Type == models.TransactionIncome && plan.incomeID == nil:
			plan.incomeID = &id
		default:
			plan.prune = append(plan.prune, id)
		}
	}
	return plan
}

func syncMirroredSide(ctx context.Context, q Querier, transfer *models.Transfer, txType string, existingID *int64) error {
	if existingID == nil {
		_, err := insertMirroredTransaction(ctx, q, transfer, txType)
		return err
	}

	categoryID := transfer.SourceCategoryID
	if txType == models.TransactionIncome {
		categoryID = transfer.DestinationCategoryID
	}
	_, err := q.Exec(ctx, `
		UPDATE transactions
		SET category_id = $1, amount = $2, description = $3, date = $4, user_id = $5, updated_at = NOW()
		WHERE id = $6`,
		categoryID, transfer.Amount, transfer.Description, transfer.Date, transfer.UserID, *existingID,
	)
	return err
}

// UpdateTransfer applies a partial update to the transfer row and forces
// the mirrored pair back into sync: each side is updated in place when
// present, recreated when missing, and any extra linked rows are pruned.
// Calling it with an empty patch is a no-op update that still heals.
func UpdateTransfer(ctx context.Context, pool *pgxpool.Pool, userID, transferID int64, patch TransferPatch) (*models.Transfer, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var transfer models.Transfer
	row := tx.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = $1 AND user_id = $2 FOR UPDATE`,
		transferID, userID,
	)
	if err := scanTransfer(row, &transfer); err != nil {
		return nil, err
	}

	if patch.SourceCategoryID != nil {
		transfer.SourceCategoryID = *patch.SourceCategoryID
	}
	if patch.DestinationCategoryID != nil {
		transfer.DestinationCategoryID = *patch.DestinationCategoryID
	}
	if patch.Amount != nil {
		transfer.Amount = *patch.Amount
	}
	if patch.Date != nil {
		transfer.Date = *patch.Date
	}
	if patch.Description != nil {
		transfer.Description = *patch.Description
	}

	row = tx.QueryRow(ctx, `
		UPDATE transfers
		SET source_category_id = $1, destination_category_id = $2, amount = $3, date = $4, description = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING `+transferColumns,
		transfer.SourceCategoryID, transfer.DestinationCategoryID, transfer.Amount,
		transfer.Date, transfer.Description, transferID, userID,
	)
	if err := scanTransfer(row, &transfer); err != nil {
		return nil, err
	}

	linked, err := linkedTransactions(ctx, tx, transferID)
	if err != nil {
		return nil, err
	}
	plan := planTransferSync(linked)

	if err := syncMirroredSide(ctx, tx, &transfer, models.TransactionExpense, plan.expenseID); err != nil {
		return nil, err
	}
	if err := syncMirroredSide(ctx, tx, &transfer, models.TransactionIncome, plan.incomeID); err != nil {
		return nil, err
	}
	for _, id := range plan.prune {
		if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND transfer_id = $2`, id, transferID); err != nil {
			return nil, err
		}
	}

	transfer.TransactionIDs, err = linkedTransactionIDs(ctx, tx, transferID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &transfer, nil
}

func linkedTransactions(ctx context.Context, q Querier, transferID int64) ([]models.Transaction, error) {
	rows, err := q.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE transfer_id = $1 ORDER BY id`,
		transferID,
	)
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

// DeleteTransfer removes the transfer; the mirrored pair goes with it via
// the ON DELETE CASCADE on transactions.transfer_id.
func DeleteTransfer(ctx context.Context, pool *pgxpool.Pool, userID, transferID int64) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM transfers WHERE id = $1 AND user_id = $2`, transferID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func GetTransferByID(ctx context.Context, pool *pgxpool.Pool, userID, transferID int64) (*models.Transfer, error) {
	var t models.Transfer
	row := pool.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM transfers WHERE id = $1 AND user_id = $2`,
		transferID, userID,
	)
	if err := scanTransfer(row, &t); err != nil {
		return nil, err
	}

	var err error
	t.TransactionIDs, err = linkedTransactionIDs(ctx, pool, transferID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TransferFilters mirrors the transfers list query surface.
type TransferFilters struct {
	SourceCategoryID      *int64
	DestinationCategoryID *int64
	Date                  *time.Time
	DateGTE               *time.Time
	DateLTE               *time.Time
	Ordering              string
}

var transferOrderings = map[string]string{
	"id":     "id",
	"date":   "date",
	"amount": "amount",
}

func GetAllTransfersForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, f TransferFilters) ([]models.Transfer, error) {
	query := `
		SELECT ` + transferColumns + `,
			(SELECT COALESCE(array_agg(t.id ORDER BY t.id), '{}') FROM transactions t WHERE t.transfer_id = transfers.id)
		FROM transfers WHERE user_id = $1`
	args := []any{userID}

	if f.SourceCategoryID != nil {
		args = append(args, *f.SourceCategoryID)
		query += fmt.Sprintf(" AND source_category_id = $%d", len(args))
	}
	if f.DestinationCategoryID != nil {
		args = append(args, *f.DestinationCategoryID)
		query += fmt.Sprintf(" AND destination_category_id = $%d", len(args))
	}
	if f.Date != nil {
		args = append(args, *f.Date)
		query += fmt.Sprintf(" AND date = $%d", len(args))
	}
	if f.DateGTE != nil {
		args = append(args, *f.DateGTE)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if f.DateLTE != nil {
		args = append(args, *f.DateLTE)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}

	query += " ORDER BY " + OrderClause(f.Ordering, transferOrderings, "date DESC, id DESC")

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		err := rows.Scan(
			&t.ID, &t.LocalID, &t.UserID, &t.SourceCategoryID, &t.DestinationCategoryID,
			&t.Amount, &t.Date, &t.Description, &t.CreatedAt, &t.UpdatedAt,
			&t.TransactionIDs,
		)
		if err != nil {
			return nil, err
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}
