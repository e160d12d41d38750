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
				CREATE TABLE IF NOT EXISTS judging_criteria (
					id          TEXT PRIMARY KEY,
					event_id    TEXT NOT NULL REFERENCES events(id),
					name        TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					max_score   INTEGER NOT NULL DEFAULT 10 CHECK (max_score > 0),
					weight      NUMERIC NOT NULL DEFAULT 1,
					sort_order  INTEGER NOT NULL DEFAULT 0
				);
				CREATE INDEX IF NOT EXISTS idx_judging_criteria_event ON judging_criteria(event_id, sort_order);

				CREATE TABLE IF NOT EXISTS scores (
					team_id         TEXT NOT NULL REFERENCES teams(id),
					judge_id        TEXT NOT NULL REFERENCES users(id),
					event_id        TEXT NOT NULL REFERENCES events(id),
					criteria_scores JSONB NOT NULL DEFAULT '{}'::jsonb,
					total           NUMERIC NOT NULL DEFAULT 0,
					comments        TEXT NOT NULL DEFAULT '',
					created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (team_id, judge_id)
				);
				CREATE INDEX IF NOT EXISTS idx_scores_event ON scores(event_id);
			`); err != nil {
				return fmt.Errorf("failed to create judging tables: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS scores;
				DROP TABLE IF EXISTS judging_criteria;
			`); err != nil {
				return fmt.Errorf("failed to drop judging tables: %w", err)
			}
			return nil
		})
	})
}
