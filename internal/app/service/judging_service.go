package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository"

	"github.com/google/uuid"
)

// MaxCommentLength caps judge comments, in characters.
const MaxCommentLength = 2000

type JudgingService struct {
	judgingRepo repository.JudgingRepository
	teamRepo    repository.TeamRepository
}

func NewJudgingService(judgingRepo repository.JudgingRepository, teamRepo repository.TeamRepository) *JudgingService {
	return &JudgingService{judgingRepo: judgingRepo, teamRepo: teamRepo}
}

type SubmitScoreRequest struct {
	TeamID         string             `json:"teamId"`
	JudgeID        string             `json:"judgeId"`
	CriteriaScores map[string]float64 `json:"criteriaScores"`
	Comments       string             `json:"comments"`
}

type CreateCriterionRequest struct {
	EventID     string  `json:"eventId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MaxScore    int     `json:"maxScore"`
	Weight      float64 `json:"weight"`
	SortOrder   int     `json:"sortOrder"`
}

// AssignedTeams lists the teams a judge is assigned to in an event, each
// with its members.
func (s *JudgingService) AssignedTeams(ctx context.Context, judgeID, eventID string) ([]model.AssignedTeam, error) {
	if judgeID == "" || eventID == "" {
		return nil, fmt.Errorf("judgeId and eventId are required: %w", common.ErrValidation)
	}
	teams, err := s.teamRepo.ListAssignedTeams(ctx, judgeID, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned teams: %w", err)
	}

	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	members, err := s.teamRepo.MembersByTeam(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load team members: %w", err)
	}

	out := make([]model.AssignedTeam, len(teams))
	for i, t := range teams {
		m := members[t.ID]
		if m == nil {
			m = []model.User{}
		}
		out[i] = model.AssignedTeam{Team: t, Members: m}
	}
	return out, nil
}

// GetScore returns the judge's score for the team, or nil when the team has
// not been scored by that judge yet.
func (s *JudgingService) GetScore(ctx context.Context, teamID, judgeID string) (*model.Score, error) {
	if teamID == "" || judgeID == "" {
		return nil, fmt.Errorf("teamId and judgeId are required: %w", common.ErrValidation)
	}
	score, err := s.judgingRepo.FindScore(ctx, teamID, judgeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load score: %w", err)
	}
	return score, nil
}

// SubmitScore records a score for the acting judge. Admins may score on
// behalf of another judge; everyone else scores as themselves.
func (s *JudgingService) SubmitScore(ctx context.Context, actor security.Claims, req SubmitScoreRequest) (*model.Score, error) {
	if !model.CanJudge(actor.Role) {
		return nil, fmt.Errorf("only judges, mentors and admins can submit scores: %w", common.ErrForbidden)
	}
	if req.TeamID == "" {
		return nil, fmt.Errorf("teamId is required: %w", common.ErrValidation)
	}
	req.Comments = strings.TrimSpace(req.Comments)
	if utf8.RuneCountInString(req.Comments) > MaxCommentLength {
		return nil, fmt.Errorf("comments must be at most %d characters: %w", MaxCommentLength, common.ErrValidation)
	}
	judgeID := actor.UserID
	if actor.Role == model.RoleAdmin && req.JudgeID != "" {
		judgeID = req.JudgeID
	}

	assignment, err := s.teamRepo.FindAssignment(ctx, req.TeamID, judgeID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("judge is not assigned to this team: %w", common.ErrForbidden)
		}
		return nil, fmt.Errorf("failed to check assignment: %w", err)
	}

	criteria, err := s.judgingRepo.ListCriteria(ctx, assignment.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load criteria: %w", err)
	}
	total, err := ScoreTotal(req.CriteriaScores, criteria)
	if err != nil {
		return nil, err
	}

	score := &model.Score{
		TeamID:         req.TeamID,
		JudgeID:        judgeID,
		EventID:        assignment.EventID,
		CriteriaScores: req.CriteriaScores,
		Total:          total,
		Comments:       req.Comments,
	}
	if score.CriteriaScores == nil {
		score.CriteriaScores = map[string]float64{}
	}
	if err := s.judgingRepo.UpsertScore(ctx, score); err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}
	return score, nil
}

// ScoreTotal validates per-criterion scores and returns their sum. When the
// event defines criteria, every key must name one of them and every value
// must lie within [0, maxScore].
func ScoreTotal(scores map[string]float64, criteria []model.JudgingCriterion) (float64, error) {
	limits := make(map[string]int, len(criteria))
	for _, c := range criteria {
		limits[c.ID] = c.MaxScore
	}

	var total float64
	for id, v := range scores {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return 0, fmt.Errorf("score for %s must be a non-negative number: %w", id, common.ErrValidation)
		}
		if len(limits) > 0 {
			limit, ok := limits[id]
			if !ok {
				return 0, fmt.Errorf("unknown criterion %s: %w", id, common.ErrValidation)
			}
			if v > float64(limit) {
				return 0, fmt.Errorf("score for %s exceeds maximum %d: %w", id, limit, common.ErrValidation)
			}
		}
		total += v
	}
	return total, nil
}

func (s *JudgingService) ListCriteria(ctx context.Context, eventID string) ([]model.JudgingCriterion, error) {
	if eventID == "" {
		return nil, fmt.Errorf("eventId is required: %w", common.ErrValidation)
	}
	criteria, err := s.judgingRepo.ListCriteria(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list criteria: %w", err)
	}
	return criteria, nil
}

func (s *JudgingService) CreateCriterion(ctx context.Context, req CreateCriterionRequest) (*model.JudgingCriterion, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.EventID == "" || req.Name == "" {
		return nil, fmt.Errorf("eventId and name are required: %w", common.ErrValidation)
	}
	if req.MaxScore <= 0 {
		req.MaxScore = 10
	}
	if req.Weight <= 0 {
		req.Weight = 1
	}
	c := &model.JudgingCriterion{
		ID:          uuid.NewString(),
		EventID:     req.EventID,
		Name:        req.Name,
		Description: req.Description,
		MaxScore:    req.MaxScore,
		Weight:      req.Weight,
		SortOrder:   req.SortOrder,
	}
	if err := s.judgingRepo.CreateCriterion(ctx, c); err != nil {
		if errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create criterion: %w", err)
	}
	return c, nil
}

func (s *JudgingService) Leaderboard(ctx context.Context, eventID string) ([]model.LeaderboardEntry, error) {
	if eventID == "" {
		return nil, fmt.Errorf("eventId is required: %w", common.ErrValidation)
	}
	entries, err := s.judgingRepo.Leaderboard(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}
	RankLeaderboard(entries)
	return entries, nil
}

// RankLeaderboard orders entries by average score, then judge count, then
// team name, and numbers them from 1.
func RankLeaderboard(entries []model.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.AverageScore != b.AverageScore {
			return a.AverageScore > b.AverageScore
		}
		if a.JudgeCount != b.JudgeCount {
			return a.JudgeCount > b.JudgeCount
		}
		return a.TeamName < b.TeamName
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
