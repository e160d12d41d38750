package seed

import (
	"context"
	"database/sql"
	"testing"

	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository/repotest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() Options {
	return Options{Students: 7, Judges: 3, Teams: 3, JudgesPerTeam: 2, Password: "pw"}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := NewGenerator(42).Generate(smallOptions())
	b := NewGenerator(42).Generate(smallOptions())

	if diff := cmp.Diff(a, b, cmpopts.IgnoreUnexported(Dataset{})); diff != "" {
		t.Errorf("same seed produced different data (-a +b):\n%s", diff)
	}
}

func TestGenerateShape(t *testing.T) {
	ds := NewGenerator(7).Generate(smallOptions())

	assert.NotEmpty(t, ds.Event.Slug)
	assert.Len(t, ds.Criteria, len(criteriaNames))
	assert.Len(t, ds.Students, 7)
	assert.Len(t, ds.Judges, 3)
	require.Len(t, ds.Teams, 3)
	assert.Len(t, ds.Scores, 6)

	emails := map[string]bool{}
	for _, u := range append(ds.Students, ds.Judges...) {
		assert.False(t, emails[u.Email], "duplicate email %s", u.Email)
		emails[u.Email] = true
	}

	members := 0
	for _, team := range ds.Teams {
		assert.Equal(t, ds.Event.ID, team.Team.EventID)
		assert.Len(t, team.JudgeIDs, 2)
		members += len(team.MemberIDs)
	}
	assert.Equal(t, 7, members)

	for _, s := range ds.Scores {
		var sum float64
		for id, v := range s.CriteriaScores {
			assert.LessOrEqual(t, v, 10.0, id)
			sum += v
		}
		assert.Equal(t, sum, s.Total)
	}
}

func TestLoadWritesThroughRepositories(t *testing.T) {
	ds := NewGenerator(1).Generate(Options{Students: 2, Judges: 1, Teams: 1, JudgesPerTeam: 1, Password: "pw"})

	var created []*model.User
	users := &repotest.FakeUserRepository{
		CreateFunc: func(ctx context.Context, tx *sql.Tx, u *model.User) error {
			created = append(created, u)
			return nil
		},
	}
	events := &repotest.FakeEventRepository{}
	teams := &repotest.FakeTeamRepository{}
	judging := &repotest.FakeJudgingRepository{}

	require.NoError(t, Load(context.Background(), Repos{Users: users, Events: events, Teams: teams, Judging: judging}, ds))

	require.Len(t, created, 3)
	student := created[0]
	ok, _ := security.CheckPasswordHash(*student.EnrollmentNumber, student.PasswordHash)
	assert.True(t, ok, "students sign in with their enrollment number")
	ok, _ = security.CheckPasswordHash("pw", created[2].PasswordHash)
	assert.True(t, ok)

	assert.Equal(t, []string{"Create"}, events.Trace())
	assert.Equal(t, []string{"Create", "AssignJudge"}, teams.Trace())
	assert.Equal(t, []string{"CreateCriterion", "CreateCriterion", "CreateCriterion", "CreateCriterion", "UpsertScore"}, judging.Trace())
}
