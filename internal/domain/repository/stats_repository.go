package repository

import (
	"context"
	"database/sql"
	"fmt"

	"hackathon_hub/internal/domain/model"
)

type StatsRepository interface {
	CountEvents(ctx context.Context) (int, error)
	CountActiveEvents(ctx context.Context) (int, error)
	CountTeams(ctx context.Context) (int, error)
	CountUsers(ctx context.Context) (int, error)
}

type pgStatsRepository struct {
	db *sql.DB
}

func NewPgStatsRepository(db *sql.DB) StatsRepository {
	return &pgStatsRepository{db: db}
}

func (r *pgStatsRepository) CountEvents(ctx context.Context) (int, error) {
	return r.count(ctx, "CountEvents", `SELECT COUNT(*) FROM events`)
}

func (r *pgStatsRepository) CountActiveEvents(ctx context.Context) (int, error) {
	return r.count(ctx, "CountActiveEvents", `SELECT COUNT(*) FROM events WHERE status = $1`, model.EventActive)
}

func (r *pgStatsRepository) CountTeams(ctx context.Context) (int, error) {
	return r.count(ctx, "CountTeams", `SELECT COUNT(*) FROM teams`)
}

func (r *pgStatsRepository) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, "CountUsers", `SELECT COUNT(*) FROM users`)
}

func (r *pgStatsRepository) count(ctx context.Context, op, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("pgStatsRepository.%s: %w", op, err)
	}
	return n, nil
}
