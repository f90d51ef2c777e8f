package db

import (
	"context"
	"fmt"

	"fintrack-server/src/db"
	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name)
		VALUES ($1, $2)
		RETURNING id, user_id, name, created_at, updated_at
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, category.UserID, category.Name).
		Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	db.DelCategoryCache(fmt.Sprintf("categories:%d", c.UserID))
	return &c, nil
}

func GetCategoryByID(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int64) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories WHERE id = $1 AND user_id = $2
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, categoryID, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoryOwned reports whether the category exists inside the user's
// partition. Every cross-entity category reference is checked through
// this before any write.
func CategoryOwned(ctx context.Context, q Querier, userID, categoryID int64) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)`,
		categoryID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category ownership check: %w", err)
	}
	return exists, nil
}

func GetAllCategoriesForUser(ctx context.Context, pool *pgxpool.Pool, userID int64, nameContains string) ([]models.Category, error) {
	cacheKey := fmt.Sprintf("categories:%d", userID)
	if nameContains == "" {
		if cached, found := db.Cache.Get(cacheKey); found {
			if categories, ok := cached.([]models.Category); ok {
				return categories, nil
			}
		}
	}

	query := `
		SELECT id, user_id, name, created_at, updated_at
		FROM categories WHERE user_id = $1
	`
	args := []any{userID}
	if nameContains != "" {
		args = append(args, "%"+nameContains+"%")
		query += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	query += " ORDER BY name"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if nameContains == "" {
		db.SetCategoryCache(cacheKey, categories)
	}
	return categories, nil
}

func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, category *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, name, created_at, updated_at
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, category.Name, category.ID, category.UserID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	db.DelCategoryCache(fmt.Sprintf("categories:%d", c.UserID))
	return &c, nil
}

func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int64) error {
	query := `DELETE FROM categories WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category not found")
	}

	db.DelCategoryCache(fmt.Sprintf("categories:%d", userID))
	return nil
}
