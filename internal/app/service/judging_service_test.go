package service

import (
	"context"
	"strings"
	"testing"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository/repotest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventCriteria = []model.JudgingCriterion{
	{ID: "innovation", EventID: "e-1", MaxScore: 10},
	{ID: "execution", EventID: "e-1", MaxScore: 5},
}

func assignedTo(judgeID string) func(ctx context.Context, teamID, jid string) (*model.TeamJudge, error) {
	return func(ctx context.Context, teamID, jid string) (*model.TeamJudge, error) {
		if jid != judgeID {
			return nil, common.ErrNotFound
		}
		return &model.TeamJudge{TeamID: teamID, JudgeID: jid, EventID: "e-1"}, nil
	}
}

func TestJudgingService_SubmitScoreSumsCriteria(t *testing.T) {
	var saved *model.Score
	judging := &repotest.FakeJudgingRepository{
		ListCriteriaFunc: func(ctx context.Context, eventID string) ([]model.JudgingCriterion, error) {
			return eventCriteria, nil
		},
		UpsertScoreFunc: func(ctx context.Context, s *model.Score) error {
			saved = s
			return nil
		},
	}
	teams := &repotest.FakeTeamRepository{FindAssignmentFunc: assignedTo("j-1")}
	svc := NewJudgingService(judging, teams)

	actor := security.Claims{UserID: "j-1", Role: model.RoleJudge}
	score, err := svc.SubmitScore(context.Background(), actor, SubmitScoreRequest{
		TeamID:         "t-1",
		JudgeID:        "someone-else",
		CriteriaScores: map[string]float64{"innovation": 8, "execution": 4.5},
		Comments:       "  solid  ",
	})
	require.NoError(t, err)

	want := &model.Score{
		TeamID:         "t-1",
		JudgeID:        "j-1",
		EventID:        "e-1",
		CriteriaScores: map[string]float64{"innovation": 8, "execution": 4.5},
		Total:          12.5,
		Comments:       "solid",
	}
	if diff := cmp.Diff(want, score); diff != "" {
		t.Errorf("score mismatch (-want +got):\n%s", diff)
	}
	assert.Same(t, saved, score)
}

func TestJudgingService_AdminMayScoreForJudge(t *testing.T) {
	teams := &repotest.FakeTeamRepository{FindAssignmentFunc: assignedTo("j-2")}
	svc := NewJudgingService(&repotest.FakeJudgingRepository{}, teams)

	score, err := svc.SubmitScore(context.Background(),
		security.Claims{UserID: "admin-1", Role: model.RoleAdmin},
		SubmitScoreRequest{TeamID: "t-1", JudgeID: "j-2", CriteriaScores: map[string]float64{"any": 3}})
	require.NoError(t, err)
	assert.Equal(t, "j-2", score.JudgeID)
	assert.Equal(t, 3.0, score.Total)
}

func TestJudgingService_SubmitScoreRejections(t *testing.T) {
	tests := []struct {
		name    string
		actor   security.Claims
		req     SubmitScoreRequest
		wantErr error
	}{
		{
			name:    "student cannot score",
			actor:   security.Claims{UserID: "s-1", Role: model.RoleStudent},
			req:     SubmitScoreRequest{TeamID: "t-1"},
			wantErr: common.ErrForbidden,
		},
		{
			name:    "unassigned judge",
			actor:   security.Claims{UserID: "j-9", Role: model.RoleJudge},
			req:     SubmitScoreRequest{TeamID: "t-1"},
			wantErr: common.ErrForbidden,
		},
		{
			name:    "missing team",
			actor:   security.Claims{UserID: "j-1", Role: model.RoleJudge},
			req:     SubmitScoreRequest{},
			wantErr: common.ErrValidation,
		},
		{
			name:    "above max score",
			actor:   security.Claims{UserID: "j-1", Role: model.RoleJudge},
			req:     SubmitScoreRequest{TeamID: "t-1", CriteriaScores: map[string]float64{"execution": 6}},
			wantErr: common.ErrValidation,
		},
		{
			name:    "unknown criterion",
			actor:   security.Claims{UserID: "j-1", Role: model.RoleMentor},
			req:     SubmitScoreRequest{TeamID: "t-1", CriteriaScores: map[string]float64{"style": 1}},
			wantErr: common.ErrValidation,
		},
		{
			name:    "comments too long",
			actor:   security.Claims{UserID: "j-1", Role: model.RoleJudge},
			req:     SubmitScoreRequest{TeamID: "t-1", Comments: strings.Repeat("é", MaxCommentLength+1)},
			wantErr: common.ErrValidation,
		},
		{
			name:    "negative score",
			actor:   security.Claims{UserID: "j-1", Role: model.RoleJudge},
			req:     SubmitScoreRequest{TeamID: "t-1", CriteriaScores: map[string]float64{"execution": -1}},
			wantErr: common.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			judging := &repotest.FakeJudgingRepository{
				ListCriteriaFunc: func(ctx context.Context, eventID string) ([]model.JudgingCriterion, error) {
					return eventCriteria, nil
				},
			}
			teams := &repotest.FakeTeamRepository{FindAssignmentFunc: assignedTo("j-1")}
			svc := NewJudgingService(judging, teams)

			_, err := svc.SubmitScore(context.Background(), tt.actor, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, judging.Called("UpsertScore"))
		})
	}
}

func TestJudgingService_GetScoreNullWhenUnscored(t *testing.T) {
	svc := NewJudgingService(&repotest.FakeJudgingRepository{}, &repotest.FakeTeamRepository{})

	score, err := svc.GetScore(context.Background(), "t-1", "j-1")
	require.NoError(t, err)
	assert.Nil(t, score)

	_, err = svc.GetScore(context.Background(), "t-1", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestJudgingService_AssignedTeamsIncludeMembers(t *testing.T) {
	teams := &repotest.FakeTeamRepository{
		ListAssignedTeamsFunc: func(ctx context.Context, judgeID, eventID string) ([]model.Team, error) {
			return []model.Team{{ID: "t-1", Name: "A"}, {ID: "t-2", Name: "B"}}, nil
		},
		MembersByTeamFunc: func(ctx context.Context, ids []string) (map[string][]model.User, error) {
			assert.Equal(t, []string{"t-1", "t-2"}, ids)
			return map[string][]model.User{"t-1": {{ID: "u-1"}}}, nil
		},
	}
	svc := NewJudgingService(&repotest.FakeJudgingRepository{}, teams)

	got, err := svc.AssignedTeams(context.Background(), "j-1", "e-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Len(t, got[0].Members, 1)
	assert.NotNil(t, got[1].Members)
	assert.Empty(t, got[1].Members)

	_, err = svc.AssignedTeams(context.Background(), "j-1", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestRankLeaderboard(t *testing.T) {
	entries := []model.LeaderboardEntry{
		{TeamName: "Zeta", AverageScore: 8, JudgeCount: 2},
		{TeamName: "Alpha", AverageScore: 8, JudgeCount: 2},
		{TeamName: "Beta", AverageScore: 8, JudgeCount: 3},
		{TeamName: "Gamma", AverageScore: 9.5, JudgeCount: 1},
		{TeamName: "Unscored", AverageScore: 0, JudgeCount: 0},
	}
	RankLeaderboard(entries)

	want := []model.LeaderboardEntry{
		{Rank: 1, TeamName: "Gamma", AverageScore: 9.5, JudgeCount: 1},
		{Rank: 2, TeamName: "Beta", AverageScore: 8, JudgeCount: 3},
		{Rank: 3, TeamName: "Alpha", AverageScore: 8, JudgeCount: 2},
		{Rank: 4, TeamName: "Zeta", AverageScore: 8, JudgeCount: 2},
		{Rank: 5, TeamName: "Unscored", AverageScore: 0, JudgeCount: 0},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("ranking mismatch (-want +got):\n%s", diff)
	}
}

func TestScoreTotalWithoutCriteria(t *testing.T) {
	total, err := ScoreTotal(map[string]float64{"a": 1.5, "b": 2}, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.5, total)
}
