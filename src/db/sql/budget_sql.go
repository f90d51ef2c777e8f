package db

import (
	"context"
	"fmt"
	"time"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const budgetColumns = `b.id, b.user_id, b.category_id, b.limit_amount, b.period, b.created_at, b.updated_at`

// usageSubqueries computes, per budget row, the three monthly sums the
// usage fields derive from: raw spend (transfer-mirrored rows excluded),
// inbound transfer total and outbound transfer total. The window
// parameters are a half-open [start, end) month interval.
const usageSubqueries = `
	COALESCE((
		SELECT SUM(t.amount) FROM transactions t
		WHERE t.user_id = b.user_id AND t.category_id = b.category_id
		  AND t.type = 'EX' AND t.transfer_id IS NULL
		  AND t.date >= $2 AND t.date < $3
	), 0) AS spent,
	COALESCE((
		SELECT SUM(tr.amount) FROM transfers tr
		WHERE tr.user_id = b.user_id AND tr.destination_category_id = b.category_id
		  AND tr.date >= $2 AND tr.date < $3
	), 0) AS inbound,
	COALESCE((
		SELECT SUM(tr.amount) FROM transfers tr
		WHERE tr.user_id = b.user_id AND tr.source_category_id = b.category_id
		  AND tr.date >= $2 AND tr.date < $3
	), 0) AS outbound`

func scanBudgetUsage(row interface{ Scan(...any) error }) (models.BudgetUsage, error) {
	var b models.Budget
	var spent, inbound, outbound decimal.Decimal
	err := row.Scan(
		&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Period,
		&b.CreatedAt, &b.UpdatedAt,
		&spent, &inbound, &outbound,
	)
	if err != nil {
		return models.BudgetUsage{}, err
	}
	return models.ComputeBudgetUsage(b, spent, inbound, outbound), nil
}

func CreateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category_id, limit_amount, period)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, category_id, limit_amount, period, created_at, updated_at
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.UserID, budget.CategoryID, budget.Limit, budget.Period).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Period, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetBudgetUsageByID returns one budget annotated with its derived usage
// fields for the month containing asOf.
func GetBudgetUsageByID(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int64, asOf time.Time) (*models.BudgetUsage, error) {
	start, end := models.MonthWindow(asOf)
	query := `SELECT ` + budgetColumns + `,` + usageSubqueries + `
		FROM budgets b WHERE b.user_id = $1 AND b.id = $4`

	usage, err := scanBudgetUsage(pool.QueryRow(ctx, query, userID, start, end, budgetID))
	if err != nil {
		return nil, err
	}
	return &usage, nil
}

// BudgetFilters mirrors the budgets list query surface.
type BudgetFilters struct {
	CategoryID *int64
	Period     string
	MinLimit   *decimal.Decimal
	MaxLimit   *decimal.Decimal
	Ordering   string
}

var budgetOrderings = map[string]string{
	"created": "b.created_at",
	"limit":   "b.limit_amount",
	"spent":   "spent",
}

// GetAllBudgetUsageForUser lists the user's budgets with usage fields,
// computed in one query via correlated subqueries.
func GetAllBudgetUsageForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, asOf time.Time, f BudgetFilters) ([]models.BudgetUsage, error) {
	start, end := models.MonthWindow(asOf)
	query := `SELECT ` + budgetColumns + `,` + usageSubqueries + `
		FROM budgets b WHERE b.user_id = $1`
	args := []any{userID, start, end}

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(" AND b.category_id = $%d", len(args))
	}
	if f.Period != "" {
		args = append(args, f.Period)
		query += fmt.Sprintf(" AND b.period = $%d", len(args))
	}
	if f.MinLimit != nil {
		args = append(args, *f.MinLimit)
		query += fmt.Sprintf(" AND b.limit_amount >= $%d", len(args))
	}
	if f.MaxLimit != nil {
		args = append(args, *f.MaxLimit)
		query += fmt.Sprintf(" AND b.limit_amount <= $%d", len(args))
	}

	query += " ORDER BY " + OrderClause(f.Ordering, budgetOrderings, "b.created_at DESC")

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.BudgetUsage
	for rows.Next() {
		usage, err := scanBudgetUsage(rows)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, usage)
	}
	return budgets, rows.Err()
}

func UpdateBudget(ctx context.Context, pool *pgxpool.Pool, budget *models.Budget) (*models.Budget, error) {
	query := `
		UPDATE budgets
		SET category_id = $1, limit_amount = $2, period = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5
		RETURNING id, user_id, category_id, limit_amount, period, created_at, updated_at
	`
	var b models.Budget
	err := pool.QueryRow(ctx, query, budget.CategoryID, budget.Limit, budget.Period, budget.ID, budget.UserID).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Limit, &b.Period, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int64) error {
	query := `DELETE FROM budgets WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, budgetID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget not found")
	}
	return nil
}
