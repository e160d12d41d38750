package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
)

type JudgingRepository interface {
	// UpsertScore writes the (team, judge) score, replacing any earlier one.
	UpsertScore(ctx context.Context, score *model.Score) error
	FindScore(ctx context.Context, teamID, judgeID string) (*model.Score, error)
	ListCriteria(ctx context.Context, eventID string) ([]model.JudgingCriterion, error)
	CreateCriterion(ctx context.Context, c *model.JudgingCriterion) error
	// Leaderboard returns per-team averages for the event, best first.
	// Rank is left unset.
	Leaderboard(ctx context.Context, eventID string) ([]model.LeaderboardEntry, error)
}

type pgJudgingRepository struct {
	db *sql.DB
}

func NewPgJudgingRepository(db *sql.DB) JudgingRepository {
	return &pgJudgingRepository{db: db}
}

func (r *pgJudgingRepository) UpsertScore(ctx context.Context, s *model.Score) error {
	criteria, err := json.Marshal(s.CriteriaScores)
	if err != nil {
		return fmt.Errorf("pgJudgingRepository.UpsertScore marshal: %w", err)
	}
	query := `
        INSERT INTO scores (team_id, judge_id, event_id, criteria_scores, total, comments)
        VALUES ($1, $2, $3, $4::jsonb, $5, $6)
        ON CONFLICT (team_id, judge_id) DO UPDATE SET
            criteria_scores = EXCLUDED.criteria_scores,
            total = EXCLUDED.total,
            comments = EXCLUDED.comments,
            updated_at = NOW()
        RETURNING created_at, updated_at`
	err = r.db.QueryRowContext(ctx, query,
		s.TeamID, s.JudgeID, s.EventID, string(criteria), s.Total, s.Comments,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("pgJudgingRepository.UpsertScore: %w", err)
	}
	return nil
}

func (r *pgJudgingRepository) FindScore(ctx context.Context, teamID, judgeID string) (*model.Score, error) {
	query := `SELECT team_id, judge_id, event_id, criteria_scores, total, comments, created_at, updated_at
	          FROM scores WHERE team_id = $1 AND judge_id = $2`
	var (
		s        model.Score
		criteria []byte
	)
	err := r.db.QueryRowContext(ctx, query, teamID, judgeID).Scan(
		&s.TeamID, &s.JudgeID, &s.EventID, &criteria, &s.Total, &s.Comments, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgJudgingRepository.FindScore: %w", err)
	}
	if err := json.Unmarshal(criteria, &s.CriteriaScores); err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.FindScore criteria: %w", err)
	}
	return &s, nil
}

func (r *pgJudgingRepository) ListCriteria(ctx context.Context, eventID string) ([]model.JudgingCriterion, error) {
	query := `SELECT id, event_id, name, description, max_score, weight, sort_order
	          FROM judging_criteria WHERE event_id = $1
	          ORDER BY sort_order, name`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.ListCriteria: %w", err)
	}
	defer rows.Close()

	criteria := []model.JudgingCriterion{}
	for rows.Next() {
		var c model.JudgingCriterion
		if err := rows.Scan(&c.ID, &c.EventID, &c.Name, &c.Description, &c.MaxScore, &c.Weight, &c.SortOrder); err != nil {
			return nil, fmt.Errorf("pgJudgingRepository.ListCriteria scan: %w", err)
		}
		criteria = append(criteria, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.ListCriteria rows: %w", err)
	}
	return criteria, nil
}

func (r *pgJudgingRepository) CreateCriterion(ctx context.Context, c *model.JudgingCriterion) error {
	query := `INSERT INTO judging_criteria (id, event_id, name, description, max_score, weight, sort_order)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.EventID, c.Name, c.Description, c.MaxScore, c.Weight, c.SortOrder)
	if err != nil {
		if common.IsForeignKeyViolation(err) {
			return fmt.Errorf("event does not exist: %w", common.ErrValidation)
		}
		return fmt.Errorf("pgJudgingRepository.CreateCriterion: %w", err)
	}
	return nil
}

func (r *pgJudgingRepository) Leaderboard(ctx context.Context, eventID string) ([]model.LeaderboardEntry, error) {
	query := `
        SELECT t.id, t.name,
               COALESCE(AVG(s.total), 0)::float8 AS average_score,
               COUNT(s.judge_id) AS judge_count
        FROM teams t
        LEFT JOIN scores s ON s.team_id = t.id
        WHERE t.event_id = $1
        GROUP BY t.id, t.name
        ORDER BY average_score DESC, judge_count DESC, t.name ASC`
	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.Leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.TeamID, &e.TeamName, &e.AverageScore, &e.JudgeCount); err != nil {
			return nil, fmt.Errorf("pgJudgingRepository.Leaderboard scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgJudgingRepository.Leaderboard rows: %w", err)
	}
	return entries, nil
}
