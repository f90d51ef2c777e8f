package db

import (
	"context"
	"time"

	"fintrack-server/src/models"
	"fintrack-server/src/util"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// date range is half-open: [start, end)
const getSummaryTotals = `
	SELECT
		COALESCE(SUM(amount) FILTER (WHERE type = 'IN'), 0) AS income_total,
		COALESCE(SUM(amount) FILTER (WHERE type = 'EX'), 0) AS expense_total
	FROM transactions
	WHERE user_id = $1 AND transfer_id IS NULL AND date >= $2 AND date < $3
`

const getSummaryByCategory = `
	SELECT
		c.id, c.name,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'IN'), 0) AS income_total,
		COALESCE(SUM(t.amount) FILTER (WHERE t.type = 'EX'), 0) AS expense_total
	FROM transactions t
	JOIN categories c ON c.id = t.category_id
	WHERE t.user_id = $1 AND t.transfer_id IS NULL AND t.date >= $2 AND t.date < $3
	GROUP BY c.id, c.name
	ORDER BY c.name
`

// GetSummaryForUser aggregates income and spending over [start, end) plus
// the current standing of every savings goal. Mirrored transfer rows are
// excluded throughout.
func GetSummaryForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, start, end time.Time) (*models.Summary, error) {
	summary := &models.Summary{
		Start:      util.FormatDate(start),
		End:        util.FormatDate(end),
		ByCategory: []models.CategoryTotal{},
		Goals:      []models.GoalProgress{},
	}

	err := pool.QueryRow(ctx, getSummaryTotals, userID, start, end).
		Scan(&summary.IncomeTotal, &summary.ExpenseTotal)
	if err != nil {
		return nil, err
	}
	summary.Net = summary.IncomeTotal.Sub(summary.ExpenseTotal)

	rows, err := pool.Query(ctx, getSummaryByCategory, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ct models.CategoryTotal
		if err := rows.Scan(&ct.CategoryID, &ct.CategoryName, &ct.IncomeTotal, &ct.ExpenseTotal); err != nil {
			return nil, err
		}
		summary.ByCategory = append(summary.ByCategory, ct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	goals, err := GetAllSavingsGoalsForUser(ctx, pool, userID, "")
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		summary.Goals = append(summary.Goals, models.GoalProgress{
			GoalID:        g.ID,
			Name:          g.Name,
			TargetAmount:  g.TargetAmount,
			CurrentAmount: g.CurrentAmount,
			PercentFunded: goalPercentFunded(g.CurrentAmount, g.TargetAmount),
		})
	}

	return summary, nil
}

func goalPercentFunded(current, target decimal.Decimal) float64 {
	if target.IsZero() {
		return 0.0
	}
	percent, _ := current.Div(target).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return percent
}
