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
				CREATE TABLE IF NOT EXISTS events (
					id         TEXT PRIMARY KEY,
					name       TEXT NOT NULL,
					slug       TEXT NOT NULL UNIQUE,
					status     TEXT NOT NULL DEFAULT 'upcoming'
					           CHECK (status IN ('upcoming', 'active', 'completed')),
					starts_at  TIMESTAMPTZ,
					ends_at    TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);

				CREATE TABLE IF NOT EXISTS teams (
					id         TEXT PRIMARY KEY,
					event_id   TEXT NOT NULL REFERENCES events(id),
					name       TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_teams_event_id ON teams(event_id);

				CREATE TABLE IF NOT EXISTS team_members (
					team_id   TEXT NOT NULL REFERENCES teams(id),
					user_id   TEXT NOT NULL REFERENCES users(id),
					joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (team_id, user_id)
				);
				CREATE INDEX IF NOT EXISTS idx_team_members_user_id ON team_members(user_id);

				CREATE TABLE IF NOT EXISTS team_judges (
					team_id     TEXT NOT NULL REFERENCES teams(id),
					judge_id    TEXT NOT NULL REFERENCES users(id),
					event_id    TEXT NOT NULL REFERENCES events(id),
					assigned_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					PRIMARY KEY (team_id, judge_id)
				);
				CREATE INDEX IF NOT EXISTS idx_team_judges_judge_event ON team_judges(judge_id, event_id);
			`); err != nil {
				return fmt.Errorf("failed to create event tables: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS team_judges;
				DROP TABLE IF EXISTS team_members;
				DROP TABLE IF EXISTS teams;
				DROP TABLE IF EXISTS events;
			`); err != nil {
				return fmt.Errorf("failed to drop event tables: %w", err)
			}
			return nil
		})
	})
}
