package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChange_EventID(t *testing.T) {
	c := Change{Table: "scores", Type: ChangeInsert, Record: json.RawMessage(`{"team_id":"t1","event_id":"e1"}`)}
	assert.Equal(t, "e1", c.EventID())

	deleted := Change{Table: "scores", Type: ChangeDelete, Record: json.RawMessage(`null`), OldRecord: json.RawMessage(`{"event_id":"e2"}`)}
	assert.Equal(t, "e2", deleted.EventID())

	assert.Empty(t, Change{Table: "users"}.EventID())
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleStudent, RoleMentor, RoleAdmin, RoleJudge} {
		assert.True(t, ValidRole(r), r)
	}
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}
