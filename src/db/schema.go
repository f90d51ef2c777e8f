package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the schema if it does not exist yet. Ordering matters:
// transactions reference transfers, so transfers come first.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS categories (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS transfers (
	id BIGSERIAL PRIMARY KEY,
	local_id BIGINT,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	source_category_id BIGINT NOT NULL REFERENCES categories(id),
	destination_category_id BIGINT NOT NULL REFERENCES categories(id),
	amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
	date DATE NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, local_id),
	CHECK (source_category_id <> destination_category_id)
);

CREATE TABLE IF NOT EXISTS transactions (
	id BIGSERIAL PRIMARY KEY,
	local_id BIGINT,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
	amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
	type TEXT NOT NULL CHECK (type IN ('IN', 'EX')),
	description TEXT NOT NULL DEFAULT '',
	date DATE NOT NULL,
	transfer_id BIGINT REFERENCES transfers(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, local_id)
);

CREATE INDEX IF NOT EXISTS idx_transactions_user_category_date
	ON transactions (user_id, category_id, date);

CREATE TABLE IF NOT EXISTS budgets (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	category_id BIGINT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
	limit_amount NUMERIC(12,2) NOT NULL CHECK (limit_amount > 0),
	period TEXT NOT NULL DEFAULT 'M' CHECK (period IN ('M', 'Y')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, category_id, period)
);

CREATE TABLE IF NOT EXISTS savings_goals (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	target_amount NUMERIC(12,2) NOT NULL CHECK (target_amount > 0),
	current_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
	target_date DATE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS debts (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	principal NUMERIC(12,2) NOT NULL CHECK (principal > 0),
	interest_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
	minimum_payment NUMERIC(12,2) NOT NULL DEFAULT 0,
	opened_date DATE,
	category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS payments (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	debt_id BIGINT NOT NULL REFERENCES debts(id) ON DELETE CASCADE,
	amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
	date DATE NOT NULL,
	memo TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS recurring_transactions (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	category_id BIGINT NOT NULL REFERENCES categories(id),
	amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
	type TEXT NOT NULL CHECK (type IN ('IN', 'EX')),
	description TEXT NOT NULL DEFAULT '',
	rrule TEXT NOT NULL,
	next_occurrence DATE NOT NULL,
	end_date DATE,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, description, rrule)
);
`
