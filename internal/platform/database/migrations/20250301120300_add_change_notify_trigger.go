package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// notifiedTables are the tables whose row changes reach realtime subscribers.
var notifiedTables = []string{
	"users", "mentor_profiles", "events", "teams",
	"team_members", "team_judges", "judging_criteria", "scores",
}

// notifyRowChangeFullRecord sends the whole row, minus secrets.
const notifyRowChangeFullRecord = `
CREATE OR REPLACE FUNCTION notify_row_change() RETURNS trigger AS $$
DECLARE
	rec jsonb;
BEGIN
	IF TG_OP = 'DELETE' THEN
		rec := to_jsonb(OLD);
	ELSE
		rec := to_jsonb(NEW);
	END IF;
	rec := rec - 'password_hash' - 'account_number' - 'ifsc_code';
	PERFORM pg_notify('row_changes', json_build_object(
		'table', TG_TABLE_NAME,
		'type', TG_OP,
		'record', rec
	)::text);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, notifyRowChangeFullRecord); err != nil {
				return fmt.Errorf("failed to create notify_row_change: %w", err)
			}

			for _, table := range notifiedTables {
				stmt := fmt.Sprintf(`
					DROP TRIGGER IF EXISTS %[1]s_notify_change ON %[1]s;
					CREATE TRIGGER %[1]s_notify_change
						AFTER INSERT OR UPDATE OR DELETE ON %[1]s
						FOR EACH ROW EXECUTE FUNCTION notify_row_change();
				`, table)
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to create trigger on %s: %w", table, err)
				}
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			for _, table := range notifiedTables {
				if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TRIGGER IF EXISTS %[1]s_notify_change ON %[1]s;`, table)); err != nil {
					return fmt.Errorf("failed to drop trigger on %s: %w", table, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `DROP FUNCTION IF EXISTS notify_row_change();`); err != nil {
				return fmt.Errorf("failed to drop notify_row_change: %w", err)
			}
			return nil
		})
	})
}
