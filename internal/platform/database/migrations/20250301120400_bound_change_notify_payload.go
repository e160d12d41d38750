package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// maxNotifyPayload stays under the 8000 byte pg_notify limit with room for
// the envelope.
const maxNotifyPayload = 7900

// notifyRowChangeBounded sends the whole row while it fits, and otherwise
// only the key columns subscribers filter and refetch by.
var notifyRowChangeBounded = fmt.Sprintf(`
CREATE OR REPLACE FUNCTION notify_row_change() RETURNS trigger AS $$
DECLARE
	rec jsonb;
	payload text;
BEGIN
	IF TG_OP = 'DELETE' THEN
		rec := to_jsonb(OLD);
	ELSE
		rec := to_jsonb(NEW);
	END IF;
	rec := rec - 'password_hash' - 'account_number' - 'ifsc_code';
	payload := json_build_object('table', TG_TABLE_NAME, 'type', TG_OP, 'record', rec)::text;
	IF octet_length(payload) >= %d THEN
		rec := jsonb_strip_nulls(jsonb_build_object(
			'id', rec->'id',
			'user_id', rec->'user_id',
			'team_id', rec->'team_id',
			'judge_id', rec->'judge_id',
			'event_id', rec->'event_id'
		));
		payload := json_build_object('table', TG_TABLE_NAME, 'type', TG_OP, 'record', rec)::text;
	END IF;
	PERFORM pg_notify('row_changes', payload);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`, maxNotifyPayload)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.ExecContext(ctx, notifyRowChangeBounded); err != nil {
			return fmt.Errorf("failed to bound notify_row_change payload: %w", err)
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		if _, err := db.ExecContext(ctx, notifyRowChangeFullRecord); err != nil {
			return fmt.Errorf("failed to restore notify_row_change: %w", err)
		}
		return nil
	})
}
