package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx, so per-user
// sequence allocation can run standalone or inside a larger transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ErrLocalIDExhausted is returned when local id allocation lost the race
// three times in a row for the same user.
var ErrLocalIDExhausted = errors.New("local id allocation retries exhausted")

const localIDAttempts = 3

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation, optionally restricted to one named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// NextLocalID computes the next per-user friendly id for table. The table
// name is always a fixed constant at the call site, never client input.
func NextLocalID(ctx context.Context, q Querier, table string, userID int64) (int64, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(local_id), 0) + 1 FROM %s WHERE user_id = $1`, table)
	var next int64
	if err := q.QueryRow(ctx, query, userID).Scan(&next); err != nil {
		return 0, fmt.Errorf("next local id for %s: %w", table, err)
	}
	return next, nil
}

// WithLocalID drives the optimistic read-increment-write cycle for a
// per-user sequential id. next reads MAX(local_id)+1 inside the user's
// partition and insert attempts the write; a concurrent insert that took
// the same id surfaces as a unique violation on one of constraints and
// triggers another attempt. An insert may allocate ids in more than one
// table (a transfer also writes its mirrored transaction rows), so every
// local_id constraint it can collide on belongs in the set. Any other
// failure propagates immediately.
func WithLocalID(ctx context.Context, constraints []string, next func(context.Context) (int64, error), insert func(context.Context, int64) error) error {
	for attempt := 0; attempt < localIDAttempts; attempt++ {
		localID, err := next(ctx)
		if err != nil {
			return err
		}

		err = insert(ctx, localID)
		if err == nil {
			return nil
		}
		if !isLostRace(err, constraints) {
			return err
		}
	}
	return ErrLocalIDExhausted
}

func isLostRace(err error, constraints []string) bool {
	for _, c := range constraints {
		if IsUniqueViolation(err, c) {
			return true
		}
	}
	return false
}
