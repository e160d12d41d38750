package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS users (
					id                TEXT PRIMARY KEY,
					email             TEXT NOT NULL UNIQUE,
					password_hash     TEXT NOT NULL,
					full_name         TEXT NOT NULL,
					role              TEXT NOT NULL DEFAULT 'student'
					                  CHECK (role IN ('student', 'mentor', 'admin', 'judge')),
					enrollment_number TEXT,
					department        TEXT,
					theme             TEXT NOT NULL DEFAULT 'light',
					created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
				CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC);

				CREATE TABLE IF NOT EXISTS mentor_profiles (
					user_id        TEXT PRIMARY KEY REFERENCES users(id),
					company        TEXT NOT NULL DEFAULT '',
					domain         TEXT NOT NULL DEFAULT '',
					experience     TEXT NOT NULL DEFAULT '',
					bank_name      TEXT NOT NULL DEFAULT '',
					account_number TEXT NOT NULL DEFAULT '',
					ifsc_code      TEXT NOT NULL DEFAULT '',
					branch         TEXT NOT NULL DEFAULT '',
					created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create users tables: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS mentor_profiles;
				DROP TABLE IF EXISTS users;
			`); err != nil {
				return fmt.Errorf("failed to drop users tables: %w", err)
			}
			return nil
		})
	})
}
