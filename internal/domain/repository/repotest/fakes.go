// Package repotest provides function-field fakes of the repository
// interfaces for service and handler tests.
package repotest

import (
	"context"
	"database/sql"
	"sync"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository"
)

// tracer records the repository methods called, in order.
type tracer struct {
	mu    sync.Mutex
	trace []string
}

func (t *tracer) record(step string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trace = append(t.trace, step)
}

func (t *tracer) Trace() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.trace...)
}

// Called reports whether step was recorded.
func (t *tracer) Called(step string) bool {
	for _, s := range t.Trace() {
		if s == step {
			return true
		}
	}
	return false
}

// ------------------------
// Fake User Repository
// ------------------------

type FakeUserRepository struct {
	tracer

	CreateFunc             func(ctx context.Context, tx *sql.Tx, user *model.User) error
	FindByEmailFunc        func(ctx context.Context, email string) (*model.User, error)
	FindByIDFunc           func(ctx context.Context, id string) (*model.User, error)
	ListFunc               func(ctx context.Context, role string) ([]model.User, error)
	UpdateThemeFunc        func(ctx context.Context, id, theme string) error
	UpdatePasswordHashFunc func(ctx context.Context, id, hash string) error
	DeleteCascadeFunc      func(ctx context.Context, id string) error
}

var _ repository.UserRepository = (*FakeUserRepository)(nil)

func (f *FakeUserRepository) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, tx, user)
	}
	return nil
}

func (f *FakeUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	f.record("FindByEmail")
	if f.FindByEmailFunc != nil {
		return f.FindByEmailFunc(ctx, email)
	}
	return nil, common.ErrNotFound
}

func (f *FakeUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	f.record("FindByID")
	if f.FindByIDFunc != nil {
		return f.FindByIDFunc(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (f *FakeUserRepository) List(ctx context.Context, role string) ([]model.User, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, role)
	}
	return []model.User{}, nil
}

func (f *FakeUserRepository) UpdateTheme(ctx context.Context, id, theme string) error {
	f.record("UpdateTheme")
	if f.UpdateThemeFunc != nil {
		return f.UpdateThemeFunc(ctx, id, theme)
	}
	return nil
}

func (f *FakeUserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	f.record("UpdatePasswordHash")
	if f.UpdatePasswordHashFunc != nil {
		return f.UpdatePasswordHashFunc(ctx, id, hash)
	}
	return nil
}

func (f *FakeUserRepository) DeleteCascade(ctx context.Context, id string) error {
	f.record("DeleteCascade")
	if f.DeleteCascadeFunc != nil {
		return f.DeleteCascadeFunc(ctx, id)
	}
	return nil
}

// ------------------------
// Fake Mentor Repository
// ------------------------

type FakeMentorRepository struct {
	tracer

	CreateFunc func(ctx context.Context, user *model.User, profile *model.MentorProfile) error
	ListFunc   func(ctx context.Context) ([]model.Mentor, error)
}

var _ repository.MentorRepository = (*FakeMentorRepository)(nil)

func (f *FakeMentorRepository) Create(ctx context.Context, user *model.User, profile *model.MentorProfile) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, user, profile)
	}
	return nil
}

func (f *FakeMentorRepository) List(ctx context.Context) ([]model.Mentor, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return []model.Mentor{}, nil
}

// ------------------------
// Fake Event Repository
// ------------------------

type FakeEventRepository struct {
	tracer

	CreateFunc       func(ctx context.Context, event *model.Event) error
	ListFunc         func(ctx context.Context) ([]model.Event, error)
	FindByIDFunc     func(ctx context.Context, id string) (*model.Event, error)
	FindBySlugFunc   func(ctx context.Context, slug string) (*model.Event, error)
	UpdateStatusFunc func(ctx context.Context, id, status string) error
}

var _ repository.EventRepository = (*FakeEventRepository)(nil)

func (f *FakeEventRepository) Create(ctx context.Context, event *model.Event) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, event)
	}
	return nil
}

func (f *FakeEventRepository) List(ctx context.Context) ([]model.Event, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx)
	}
	return []model.Event{}, nil
}

func (f *FakeEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	f.record("FindByID")
	if f.FindByIDFunc != nil {
		return f.FindByIDFunc(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (f *FakeEventRepository) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	f.record("FindBySlug")
	if f.FindBySlugFunc != nil {
		return f.FindBySlugFunc(ctx, slug)
	}
	return nil, common.ErrNotFound
}

func (f *FakeEventRepository) UpdateStatus(ctx context.Context, id, status string) error {
	f.record("UpdateStatus")
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, id, status)
	}
	return nil
}

// ------------------------
// Fake Team Repository
// ------------------------

type FakeTeamRepository struct {
	tracer

	CreateFunc            func(ctx context.Context, team *model.Team, memberIDs []string) error
	ListFunc              func(ctx context.Context, eventID string) ([]model.Team, error)
	FindByIDFunc          func(ctx context.Context, id string) (*model.Team, error)
	ListMembersFunc       func(ctx context.Context, teamID string) ([]model.User, error)
	MembersByTeamFunc     func(ctx context.Context, teamIDs []string) (map[string][]model.User, error)
	AddMemberFunc         func(ctx context.Context, teamID, userID string) error
	RemoveMemberFunc      func(ctx context.Context, teamID, userID string) error
	ListJudgesFunc        func(ctx context.Context, teamID string) ([]model.User, error)
	AssignJudgeFunc       func(ctx context.Context, teamID, judgeID string) error
	RemoveJudgeFunc       func(ctx context.Context, teamID, judgeID string) error
	FindAssignmentFunc    func(ctx context.Context, teamID, judgeID string) (*model.TeamJudge, error)
	ListAssignedTeamsFunc func(ctx context.Context, judgeID, eventID string) ([]model.Team, error)
}

var _ repository.TeamRepository = (*FakeTeamRepository)(nil)

func (f *FakeTeamRepository) Create(ctx context.Context, team *model.Team, memberIDs []string) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, team, memberIDs)
	}
	return nil
}

func (f *FakeTeamRepository) List(ctx context.Context, eventID string) ([]model.Team, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, eventID)
	}
	return []model.Team{}, nil
}

func (f *FakeTeamRepository) FindByID(ctx context.Context, id string) (*model.Team, error) {
	f.record("FindByID")
	if f.FindByIDFunc != nil {
		return f.FindByIDFunc(ctx, id)
	}
	return nil, common.ErrNotFound
}

func (f *FakeTeamRepository) ListMembers(ctx context.Context, teamID string) ([]model.User, error) {
	f.record("ListMembers")
	if f.ListMembersFunc != nil {
		return f.ListMembersFunc(ctx, teamID)
	}
	return []model.User{}, nil
}

func (f *FakeTeamRepository) MembersByTeam(ctx context.Context, teamIDs []string) (map[string][]model.User, error) {
	f.record("MembersByTeam")
	if f.MembersByTeamFunc != nil {
		return f.MembersByTeamFunc(ctx, teamIDs)
	}
	return map[string][]model.User{}, nil
}

func (f *FakeTeamRepository) AddMember(ctx context.Context, teamID, userID string) error {
	f.record("AddMember")
	if f.AddMemberFunc != nil {
		return f.AddMemberFunc(ctx, teamID, userID)
	}
	return nil
}

func (f *FakeTeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	f.record("RemoveMember")
	if f.RemoveMemberFunc != nil {
		return f.RemoveMemberFunc(ctx, teamID, userID)
	}
	return nil
}

func (f *FakeTeamRepository) ListJudges(ctx context.Context, teamID string) ([]model.User, error) {
	f.record("ListJudges")
	if f.ListJudgesFunc != nil {
		return f.ListJudgesFunc(ctx, teamID)
	}
	return []model.User{}, nil
}

func (f *FakeTeamRepository) AssignJudge(ctx context.Context, teamID, judgeID string) error {
	f.record("AssignJudge")
	if f.AssignJudgeFunc != nil {
		return f.AssignJudgeFunc(ctx, teamID, judgeID)
	}
	return nil
}

func (f *FakeTeamRepository) RemoveJudge(ctx context.Context, teamID, judgeID string) error {
	f.record("RemoveJudge")
	if f.RemoveJudgeFunc != nil {
		return f.RemoveJudgeFunc(ctx, teamID, judgeID)
	}
	return nil
}

func (f *FakeTeamRepository) FindAssignment(ctx context.Context, teamID, judgeID string) (*model.TeamJudge, error) {
	f.record("FindAssignment")
	if f.FindAssignmentFunc != nil {
		return f.FindAssignmentFunc(ctx, teamID, judgeID)
	}
	return nil, common.ErrNotFound
}

func (f *FakeTeamRepository) ListAssignedTeams(ctx context.Context, judgeID, eventID string) ([]model.Team, error) {
	f.record("ListAssignedTeams")
	if f.ListAssignedTeamsFunc != nil {
		return f.ListAssignedTeamsFunc(ctx, judgeID, eventID)
	}
	return []model.Team{}, nil
}

// ------------------------
// Fake Judging Repository
// ------------------------

type FakeJudgingRepository struct {
	tracer

	UpsertScoreFunc     func(ctx context.Context, score *model.Score) error
	FindScoreFunc       func(ctx context.Context, teamID, judgeID string) (*model.Score, error)
	ListCriteriaFunc    func(ctx context.Context, eventID string) ([]model.JudgingCriterion, error)
	CreateCriterionFunc func(ctx context.Context, c *model.JudgingCriterion) error
	LeaderboardFunc     func(ctx context.Context, eventID string) ([]model.LeaderboardEntry, error)
}

var _ repository.JudgingRepository = (*FakeJudgingRepository)(nil)

func (f *FakeJudgingRepository) UpsertScore(ctx context.Context, score *model.Score) error {
	f.record("UpsertScore")
	if f.UpsertScoreFunc != nil {
		return f.UpsertScoreFunc(ctx, score)
	}
	return nil
}

func (f *FakeJudgingRepository) FindScore(ctx context.Context, teamID, judgeID string) (*model.Score, error) {
	f.record("FindScore")
	if f.FindScoreFunc != nil {
		return f.FindScoreFunc(ctx, teamID, judgeID)
	}
	return nil, common.ErrNotFound
}

func (f *FakeJudgingRepository) ListCriteria(ctx context.Context, eventID string) ([]model.JudgingCriterion, error) {
	f.record("ListCriteria")
	if f.ListCriteriaFunc != nil {
		return f.ListCriteriaFunc(ctx, eventID)
	}
	return []model.JudgingCriterion{}, nil
}

func (f *FakeJudgingRepository) CreateCriterion(ctx context.Context, c *model.JudgingCriterion) error {
	f.record("CreateCriterion")
	if f.CreateCriterionFunc != nil {
		return f.CreateCriterionFunc(ctx, c)
	}
	return nil
}

func (f *FakeJudgingRepository) Leaderboard(ctx context.Context, eventID string) ([]model.LeaderboardEntry, error) {
	f.record("Leaderboard")
	if f.LeaderboardFunc != nil {
		return f.LeaderboardFunc(ctx, eventID)
	}
	return []model.LeaderboardEntry{}, nil
}

// ------------------------
// Fake Stats Repository
// ------------------------

type FakeStatsRepository struct {
	tracer

	CountEventsFunc       func(ctx context.Context) (int, error)
	CountActiveEventsFunc func(ctx context.Context) (int, error)
	CountTeamsFunc        func(ctx context.Context) (int, error)
	CountUsersFunc        func(ctx context.Context) (int, error)
}

var _ repository.StatsRepository = (*FakeStatsRepository)(nil)

func (f *FakeStatsRepository) CountEvents(ctx context.Context) (int, error) {
	f.record("CountEvents")
	if f.CountEventsFunc != nil {
		return f.CountEventsFunc(ctx)
	}
	return 0, nil
}

func (f *FakeStatsRepository) CountActiveEvents(ctx context.Context) (int, error) {
	f.record("CountActiveEvents")
	if f.CountActiveEventsFunc != nil {
		return f.CountActiveEventsFunc(ctx)
	}
	return 0, nil
}

func (f *FakeStatsRepository) CountTeams(ctx context.Context) (int, error) {
	f.record("CountTeams")
	if f.CountTeamsFunc != nil {
		return f.CountTeamsFunc(ctx)
	}
	return 0, nil
}

func (f *FakeStatsRepository) CountUsers(ctx context.Context) (int, error) {
	f.record("CountUsers")
	if f.CountUsersFunc != nil {
		return f.CountUsersFunc(ctx)
	}
	return 0, nil
}
