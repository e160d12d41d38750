package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository"

	"github.com/google/uuid"
)

type TeamService struct {
	teamRepo repository.TeamRepository
	userRepo repository.UserRepository
}

func NewTeamService(teamRepo repository.TeamRepository, userRepo repository.UserRepository) *TeamService {
	return &TeamService{teamRepo: teamRepo, userRepo: userRepo}
}

type CreateTeamRequest struct {
	EventID   string   `json:"eventId"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

func (s *TeamService) List(ctx context.Context, eventID string) ([]model.Team, error) {
	teams, err := s.teamRepo.List(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

func (s *TeamService) Create(ctx context.Context, req CreateTeamRequest) (*model.Team, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.EventID == "" || req.Name == "" {
		return nil, fmt.Errorf("eventId and name are required: %w", common.ErrValidation)
	}
	team := &model.Team{ID: uuid.NewString(), EventID: req.EventID, Name: req.Name}
	if err := s.teamRepo.Create(ctx, team, dedupe(req.MemberIDs)); err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// Members lists the team's members. A team with no members yields an empty
// list; an unknown team is not found.
func (s *TeamService) Members(ctx context.Context, teamID string) ([]model.User, error) {
	if err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}
	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func (s *TeamService) Judges(ctx context.Context, teamID string) ([]model.User, error) {
	if err := s.requireTeam(ctx, teamID); err != nil {
		return nil, err
	}
	judges, err := s.teamRepo.ListJudges(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list judges: %w", err)
	}
	return judges, nil
}

func (s *TeamService) AddMember(ctx context.Context, teamID, userID string) error {
	if userID == "" {
		return fmt.Errorf("userId is required: %w", common.ErrValidation)
	}
	if err := s.requireTeam(ctx, teamID); err != nil {
		return err
	}
	if err := s.teamRepo.AddMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID string) error {
	if err := s.teamRepo.RemoveMember(ctx, teamID, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("membership not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// AssignJudge assigns a user allowed to judge to the team.
func (s *TeamService) AssignJudge(ctx context.Context, teamID, judgeID string) error {
	if judgeID == "" {
		return fmt.Errorf("judgeId is required: %w", common.ErrValidation)
	}
	if err := s.requireTeam(ctx, teamID); err != nil {
		return err
	}
	judge, err := s.userRepo.FindByID(ctx, judgeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("judge not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to load judge: %w", err)
	}
	if !model.CanJudge(judge.Role) {
		return fmt.Errorf("user with role %s cannot judge: %w", judge.Role, common.ErrValidation)
	}
	if err := s.teamRepo.AssignJudge(ctx, teamID, judgeID); err != nil {
		return fmt.Errorf("failed to assign judge: %w", err)
	}
	return nil
}

func (s *TeamService) RemoveJudge(ctx context.Context, teamID, judgeID string) error {
	if err := s.teamRepo.RemoveJudge(ctx, teamID, judgeID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("judge assignment not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to remove judge: %w", err)
	}
	return nil
}

func (s *TeamService) requireTeam(ctx context.Context, teamID string) error {
	if _, err := s.teamRepo.FindByID(ctx, teamID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("team not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to load team: %w", err)
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
