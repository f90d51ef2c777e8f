package db

import (
	"context"
	"fmt"
	"time"

	"fintrack-server/src/models"
	"fintrack-server/src/recurrence"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
)

const recurringColumns = `id, user_id, category_id, amount, type, description, rrule, next_occurrence, end_date, active, created_at, updated_at`

func scanRecurring(row interface{ Scan(...any) error }, r *models.RecurringTransaction) error {
	return row.Scan(
		&r.ID, &r.UserID, &r.CategoryID, &r.Amount, &r.Type, &r.Description,
		&r.RRule, &r.NextOccurrence, &r.EndDate, &r.Active, &r.CreatedAt, &r.UpdatedAt,
	)
}

func CreateRecurringTransaction(ctx context.Context, pool *pgxpool.Pool, recurring *models.RecurringTransaction) (*models.RecurringTransaction, error) {
	query := `
		INSERT INTO recurring_transactions (user_id, category_id, amount, type, description, rrule, next_occurrence, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + recurringColumns

	var r models.RecurringTransaction
	row := pool.QueryRow(ctx, query,
		recurring.UserID, recurring.CategoryID, recurring.Amount, recurring.Type,
		recurring.Description, recurring.RRule, recurring.NextOccurrence, recurring.EndDate,
	)
	if err := scanRecurring(row, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func GetRecurringTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, recurringID int64) (*models.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions WHERE id = $1 AND user_id = $2`
	var r models.RecurringTransaction
	if err := scanRecurring(pool.QueryRow(ctx, query, recurringID, userID), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func GetAllRecurringTransactionsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64) ([]models.RecurringTransaction, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions WHERE user_id = $1 ORDER BY next_occurrence, id`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recurrings []models.RecurringTransaction
	for rows.Next() {
		var r models.RecurringTransaction
		if err := scanRecurring(rows, &r); err != nil {
			return nil, err
		}
		recurrings = append(recurrings, r)
	}
	return recurrings, rows.Err()
}

func UpdateRecurringTransaction(ctx context.Context, pool *pgxpool.Pool, recurring *models.RecurringTransaction) (*models.RecurringTransaction, error) {
	query := `
		UPDATE recurring_transactions
		SET category_id = $1, amount = $2, type = $3, description = $4, rrule = $5, next_occurrence = $6, end_date = $7, updated_at = NOW()
		WHERE id = $8 AND user_id = $9
		RETURNING ` + recurringColumns

	var r models.RecurringTransaction
	row := pool.QueryRow(ctx, query,
		recurring.CategoryID, recurring.Amount, recurring.Type, recurring.Description,
		recurring.RRule, recurring.NextOccurrence, recurring.EndDate, recurring.ID, recurring.UserID,
	)
	if err := scanRecurring(row, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func DeleteRecurringTransaction(ctx context.Context, pool *pgxpool.Pool, userID, recurringID int64) error {
	query := `DELETE FROM recurring_transactions WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, recurringID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("recurring transaction not found")
	}
	return nil
}

// PostDueRecurring posts a real transaction for every active recurring
// entry whose next_occurrence is on or before today, catching up multiple
// missed occurrences strictly in sequence and backdating each posting to
// its own scheduled date. The whole pass runs in one transaction: any
// failure aborts the batch, and in dry-run mode everything is rolled back
// while the would-be postings are still reported. A nil userID means all
// users (batch command); otherwise the pass is scoped to that user.
func PostDueRecurring(ctx context.Context, pool *pgxpool.Pool, userID *int64, today time.Time, dryRun bool) (*models.PostResult, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + recurringColumns + ` FROM recurring_transactions WHERE active AND next_occurrence <= $1`
	args := []any{today}
	if userID != nil {
		args = append(args, *userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	query += " ORDER BY next_occurrence, id"

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var due []models.RecurringTransaction
	for rows.Next() {
		var r models.RecurringTransaction
		if err := scanRecurring(rows, &r); err != nil {
			rows.Close()
			return nil, err
		}
		due = append(due, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &models.PostResult{Date: util.FormatDate(today)}

	for i := range due {
		r := &due[i]
		// loop in case the cadence is behind today by more than one step
		for r.Active && !r.NextOccurrence.After(today) {
			localID, err := NextLocalID(ctx, tx, "transactions", r.UserID)
			if err != nil {
				return nil, fmt.Errorf("post recurring %d: %w", r.ID, err)
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO transactions (local_id, user_id, category_id, amount, type, description, date)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				localID, r.UserID, r.CategoryID, r.Amount, r.Type, r.Description, r.NextOccurrence,
			)
			if err != nil {
				return nil, fmt.Errorf("post recurring %d: %w", r.ID, err)
			}

			result.Posted++
			result.Postings = append(result.Postings, models.PostedOccurrence{
				RecurringID: r.ID,
				UserID:      r.UserID,
				CategoryID:  r.CategoryID,
				Amount:      r.Amount,
				Type:        r.Type,
				Description: r.Description,
				Date:        r.NextOccurrence,
			})

			next, active, err := recurrence.Advance(r.RRule, r.NextOccurrence, r.EndDate)
			if err != nil {
				return nil, fmt.Errorf("advance recurring %d: %w", r.ID, err)
			}
			r.Active = active
			if active {
				r.NextOccurrence = next
			}

			_, err = tx.Exec(ctx,
				`UPDATE recurring_transactions SET next_occurrence = $1, active = $2, updated_at = NOW() WHERE id = $3`,
				r.NextOccurrence, r.Active, r.ID,
			)
			if err != nil {
				return nil, fmt.Errorf("advance recurring %d: %w", r.ID, err)
			}
		}
	}

	if dryRun {
		// report the would-be postings, commit nothing
		return result, tx.Rollback(ctx)
	}
	return result, tx.Commit(ctx)
}
