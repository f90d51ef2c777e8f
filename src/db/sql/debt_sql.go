package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// balanceSubquery derives the current balance from the payment rows; no
// running balance is stored anywhere.
const debtColumns = `d.id, d.user_id, d.name, d.principal, d.interest_rate, d.minimum_payment, d.opened_date, d.category_id, d.created_at, d.updated_at,
	d.principal - COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.debt_id = d.id), 0) AS balance`

func scanDebt(row interface{ Scan(...any) error }, d *models.Debt) error {
	return row.Scan(
		&d.ID, &d.UserID, &d.Name, &d.Principal, &d.InterestRate, &d.MinimumPayment,
		&d.OpenedDate, &d.CategoryID, &d.CreatedAt, &d.UpdatedAt, &d.Balance,
	)
}

func CreateDebt(ctx context.Context, pool *pgxpool.Pool, debt *models.Debt) (*models.Debt, error) {
	query := `
		INSERT INTO debts (user_id, name, principal, interest_rate, minimum_payment, opened_date, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int64
	err := pool.QueryRow(ctx, query,
		debt.UserID, debt.Name, debt.Principal, debt.InterestRate,
		debt.MinimumPayment, debt.OpenedDate, debt.CategoryID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return GetDebtByID(ctx, pool, debt.UserID, id)
}

func GetDebtByID(ctx context.Context, pool *pgxpool.Pool, userID, debtID int64) (*models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts d WHERE d.id = $1 AND d.user_id = $2`
	var d models.Debt
	if err := scanDebt(pool.QueryRow(ctx, query, debtID, userID), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

var debtOrderings = map[string]string{
	"opened_date":     "d.opened_date",
	"principal":       "d.principal",
	"minimum_payment": "d.minimum_payment",
	"balance":         "balance",
}

func GetAllDebtsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, categoryID *int64, ordering string) ([]models.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts d WHERE d.user_id = $1`
	args := []any{userID}
	if categoryID != nil {
		args = append(args, *categoryID)
		query += fmt.Sprintf(" AND d.category_id = $%d", len(args))
	}
	query += " ORDER BY " + OrderClause(ordering, debtOrderings, "d.opened_date DESC")

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []models.Debt
	for rows.Next() {
		var d models.Debt
		if err := scanDebt(rows, &d); err != nil {
			return nil, err
		}
		debts = append(debts, d)
	}
	return debts, rows.Err()
}

func UpdateDebt(ctx context.Context, pool *pgxpool.Pool, debt *models.Debt) (*models.Debt, error) {
	query := `
		UPDATE debts
		SET name = $1, principal = $2, interest_rate = $3, minimum_payment = $4, opened_date = $5, category_id = $6, updated_at = NOW()
		WHERE id = $7 AND user_id = $8
	`
	cmd, err := pool.Exec(ctx, query,
		debt.Name, debt.Principal, debt.InterestRate, debt.MinimumPayment,
		debt.OpenedDate, debt.CategoryID, debt.ID, debt.UserID,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, fmt.Errorf("debt not found")
	}
	return GetDebtByID(ctx, pool, debt.UserID, debt.ID)
}

func DeleteDebt(ctx context.Context, pool *pgxpool.Pool, userID, debtID int64) error {
	query := `DELETE FROM debts WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, debtID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("debt not found")
	}
	return nil
}

// Payments

const paymentColumns = `id, user_id, debt_id, amount, date, memo, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }, p *models.Payment) error {
	return row.Scan(&p.ID, &p.UserID, &p.DebtID, &p.Amount, &p.Date, &p.Memo, &p.CreatedAt, &p.UpdatedAt)
}

func CreatePayment(ctx context.Context, pool *pgxpool.Pool, payment *models.Payment) (*models.Payment, error) {
	query := `
		INSERT INTO payments (user_id, debt_id, amount, date, memo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + paymentColumns

	var p models.Payment
	row := pool.QueryRow(ctx, query, payment.UserID, payment.DebtID, payment.Amount, payment.Date, payment.Memo)
	if err := scanPayment(row, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func GetPaymentByID(ctx context.Context, pool *pgxpool.Pool, userID, paymentID int64) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1 AND user_id = $2`
	var p models.Payment
	if err := scanPayment(pool.QueryRow(ctx, query, paymentID, userID), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func GetAllPaymentsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, debtID *int64) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE user_id = $1`
	args := []any{userID}
	if debtID != nil {
		args = append(args, *debtID)
		query += fmt.Sprintf(" AND debt_id = $%d", len(args))
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func DeletePayment(ctx context.Context, pool *pgxpool.Pool, userID, paymentID int64) error {
	query := `DELETE FROM payments WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, paymentID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("payment not found")
	}
	return nil
}
