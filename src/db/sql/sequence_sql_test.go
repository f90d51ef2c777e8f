package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		constraint string
		want       bool
	}{
		{
			name:       "matching constraint",
			err:        uniqueViolation("transactions_user_id_local_id_key"),
			constraint: "transactions_user_id_local_id_key",
			want:       true,
		},
		{
			name:       "any constraint when unrestricted",
			err:        uniqueViolation("some_other_key"),
			constraint: "",
			want:       true,
		},
		{
			name:       "different constraint",
			err:        uniqueViolation("categories_user_id_name_key"),
			constraint: "transactions_user_id_local_id_key",
			want:       false,
		},
		{
			name:       "other postgres error code",
			err:        &pgconn.PgError{Code: "23503"},
			constraint: "",
			want:       false,
		},
		{
			name:       "plain error",
			err:        errors.New("connection refused"),
			constraint: "",
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsUniqueViolation(tt.err, tt.constraint))
		})
	}
}

func TestWithLocalIDFirstAttemptSucceeds(t *testing.T) {
	var got int64
	err := WithLocalID(context.Background(), []string{"t_key"},
		func(context.Context) (int64, error) { return 5, nil },
		func(_ context.Context, localID int64) error {
			got = localID
			return nil
		},
	)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), got)
}

func TestWithLocalIDRetriesAfterLostRace(t *testing.T) {
	next := int64(7)
	var attempts []int64
	err := WithLocalID(context.Background(), []string{"t_key"},
		func(context.Context) (int64, error) {
			next++
			return next, nil
		},
		func(_ context.Context, localID int64) error {
			attempts = append(attempts, localID)
			if len(attempts) == 1 {
				// a concurrent writer took this id
				return uniqueViolation("t_key")
			}
			return nil
		},
	)
	assert.NoError(t, err)
	assert.Equal(t, []int64{8, 9}, attempts)
}

// A transfer create allocates ids in two tables inside one insert
// closure; losing the race on the mirrored-transaction constraint must
// retry just like losing it on the transfer constraint.
func TestWithLocalIDRetriesOnAnyConstraintInSet(t *testing.T) {
	constraints := []string{"transfers_user_id_local_id_key", "transactions_user_id_local_id_key"}

	inserts := 0
	err := WithLocalID(context.Background(), constraints,
		func(context.Context) (int64, error) { return 3, nil },
		func(context.Context, int64) error {
			inserts++
			if inserts == 1 {
				// a plain transaction create took the mirrored row's id
				return uniqueViolation("transactions_user_id_local_id_key")
			}
			return nil
		},
	)
	assert.NoError(t, err)
	assert.Equal(t, 2, inserts)
}

func TestWithLocalIDExhaustsAfterThreeAttempts(t *testing.T) {
	inserts := 0
	err := WithLocalID(context.Background(), []string{"t_key"},
		func(context.Context) (int64, error) { return 1, nil },
		func(context.Context, int64) error {
			inserts++
			return uniqueViolation("t_key")
		},
	)
	assert.ErrorIs(t, err, ErrLocalIDExhausted)
	assert.Equal(t, 3, inserts)
}

func TestWithLocalIDPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("boom")

	inserts := 0
	err := WithLocalID(context.Background(), []string{"t_key"},
		func(context.Context) (int64, error) { return 1, nil },
		func(context.Context, int64) error {
			inserts++
			return boom
		},
	)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, inserts)

	// a unique violation on a different constraint is not a lost race
	err = WithLocalID(context.Background(), []string{"t_key"},
		func(context.Context) (int64, error) { return 1, nil },
		func(context.Context, int64) error {
			return uniqueViolation("unrelated_key")
		},
	)
	var pgErr *pgconn.PgError
	assert.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "unrelated_key", pgErr.ConstraintName)
}

func TestWithLocalIDPropagatesNextError(t *testing.T) {
	boom := errors.New("read failed")
	err := WithLocalID(context.Background(), []string{"t_key"},
		func(context.Context) (int64, error) { return 0, boom },
		func(context.Context, int64) error {
			t.Fatal("insert should not run")
			return nil
		},
	)
	assert.ErrorIs(t, err, boom)
}
