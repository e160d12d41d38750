package model

import "encoding/json"

const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// Change is one row-level mutation as emitted by the database trigger or a
// hosted database webhook.
type Change struct {
	Table     string          `json:"table"`
	Type      string          `json:"type"`
	Record    json.RawMessage `json:"record,omitempty"`
	OldRecord json.RawMessage `json:"old_record,omitempty"`
}

// Row returns the affected row: the new record, or the old one for deletes
// that carry only old_record.
func (c Change) Row() json.RawMessage {
	if len(c.Record) > 0 && string(c.Record) != "null" {
		return c.Record
	}
	return c.OldRecord
}

// EventID returns the row's event_id column, if it has one.
func (c Change) EventID() string {
	var row struct {
		EventID string `json:"event_id"`
	}
	if err := json.Unmarshal(c.Row(), &row); err != nil {
		return ""
	}
	return row.EventID
}

// ChangeTables are the tables whose changes are published to realtime
// subscribers.
var ChangeTables = []string{
	"users", "mentor_profiles", "events", "teams",
	"team_members", "team_judges", "judging_criteria", "scores",
}
