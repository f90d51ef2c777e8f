package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

const goalColumns = `id, user_id, name, target_amount, current_amount, target_date, created_at, updated_at`

func scanGoal(row interface{ Scan(...any) error }, g *models.SavingsGoal) error {
	err := row.Scan(
		&g.ID, &g.UserID, &g.Name, &g.TargetAmount, &g.CurrentAmount,
		&g.TargetDate, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return err
	}
	g.Derive()
	return nil
}

func CreateSavingsGoal(ctx context.Context, pool *pgxpool.Pool, goal *models.SavingsGoal) (*models.SavingsGoal, error) {
	query := `
		INSERT INTO savings_goals (user_id, name, target_amount, current_amount, target_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + goalColumns

	var g models.SavingsGoal
	row := pool.QueryRow(ctx, query, goal.UserID, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.TargetDate)
	if err := scanGoal(row, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func GetSavingsGoalByID(ctx context.Context, pool *pgxpool.Pool, userID, goalID int64) (*models.SavingsGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals WHERE id = $1 AND user_id = $2`
	var g models.SavingsGoal
	if err := scanGoal(pool.QueryRow(ctx, query, goalID, userID), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func GetAllSavingsGoalsForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, nameContains string) ([]models.SavingsGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM savings_goals WHERE user_id = $1`
	args := []any{userID}
	if nameContains != "" {
		args = append(args, "%"+nameContains+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []models.SavingsGoal
	for rows.Next() {
		var g models.SavingsGoal
		if err := scanGoal(rows, &g); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func UpdateSavingsGoal(ctx context.Context, pool *pgxpool.Pool, goal *models.SavingsGoal) (*models.SavingsGoal, error) {
	query := `
		UPDATE savings_goals
		SET name = $1, target_amount = $2, current_amount = $3, target_date = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6
		RETURNING ` + goalColumns

	var g models.SavingsGoal
	row := pool.QueryRow(ctx, query, goal.Name, goal.TargetAmount, goal.CurrentAmount, goal.TargetDate, goal.ID, goal.UserID)
	if err := scanGoal(row, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func DeleteSavingsGoal(ctx context.Context, pool *pgxpool.Pool, userID, goalID int64) error {
	query := `DELETE FROM savings_goals WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, goalID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("savings goal not found")
	}
	return nil
}
