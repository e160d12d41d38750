package service

import (
	"context"
	"testing"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existingTeam(ctx context.Context, id string) (*model.Team, error) {
	if id != "t-1" {
		return nil, common.ErrNotFound
	}
	return &model.Team{ID: "t-1", EventID: "e-1", Name: "Team"}, nil
}

func TestTeamService_JudgesEmptyVersusMissingTeam(t *testing.T) {
	teams := &repotest.FakeTeamRepository{FindByIDFunc: existingTeam}
	svc := NewTeamService(teams, &repotest.FakeUserRepository{})

	judges, err := svc.Judges(context.Background(), "t-1")
	require.NoError(t, err)
	assert.NotNil(t, judges)
	assert.Empty(t, judges)

	_, err = svc.Judges(context.Background(), "t-404")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.Equal(t, "team not found", common.PublicMessage(err))
}

func TestTeamService_MembersMissingTeam(t *testing.T) {
	teams := &repotest.FakeTeamRepository{FindByIDFunc: existingTeam}
	svc := NewTeamService(teams, &repotest.FakeUserRepository{})

	_, err := svc.Members(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.False(t, teams.Called("ListMembers"))
}

func TestTeamService_CreateDedupesMembers(t *testing.T) {
	var members []string
	teams := &repotest.FakeTeamRepository{
		CreateFunc: func(ctx context.Context, team *model.Team, memberIDs []string) error {
			members = memberIDs
			return nil
		},
	}
	svc := NewTeamService(teams, &repotest.FakeUserRepository{})

	team, err := svc.Create(context.Background(), CreateTeamRequest{EventID: "e-1", Name: " Rocket ", MemberIDs: []string{"a", "b", "a", ""}})
	require.NoError(t, err)
	assert.Equal(t, "Rocket", team.Name)
	assert.Equal(t, []string{"a", "b"}, members)

	_, err = svc.Create(context.Background(), CreateTeamRequest{Name: "No event"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestTeamService_AssignJudgeRequiresJudgingRole(t *testing.T) {
	users := &repotest.FakeUserRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			role := model.RoleStudent
			if id == "j-1" {
				role = model.RoleJudge
			}
			return &model.User{ID: id, Role: role}, nil
		},
	}
	teams := &repotest.FakeTeamRepository{FindByIDFunc: existingTeam}
	svc := NewTeamService(teams, users)

	err := svc.AssignJudge(context.Background(), "t-1", "s-1")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.False(t, teams.Called("AssignJudge"))

	require.NoError(t, svc.AssignJudge(context.Background(), "t-1", "j-1"))
	assert.True(t, teams.Called("AssignJudge"))
}

func TestTeamService_RemoveMemberNotFound(t *testing.T) {
	teams := &repotest.FakeTeamRepository{
		RemoveMemberFunc: func(ctx context.Context, teamID, userID string) error { return common.ErrNotFound },
	}
	svc := NewTeamService(teams, &repotest.FakeUserRepository{})

	err := svc.RemoveMember(context.Background(), "t-1", "u-1")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
