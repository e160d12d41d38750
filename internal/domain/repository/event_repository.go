package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	List(ctx context.Context) ([]model.Event, error)
	FindByID(ctx context.Context, id string) (*model.Event, error)
	FindBySlug(ctx context.Context, slug string) (*model.Event, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

const eventColumns = `id, name, slug, status, starts_at, ends_at, created_at`

type pgEventRepository struct {
	db *sql.DB
}

func NewPgEventRepository(db *sql.DB) EventRepository {
	return &pgEventRepository{db: db}
}

func scanEvent(row rowScanner, e *model.Event) error {
	return row.Scan(&e.ID, &e.Name, &e.Slug, &e.Status, &e.StartsAt, &e.EndsAt, &e.CreatedAt)
}

func (r *pgEventRepository) Create(ctx context.Context, e *model.Event) error {
	query := `INSERT INTO events (id, name, slug, status, starts_at, ends_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, e.ID, e.Name, e.Slug, e.Status, e.StartsAt, e.EndsAt).Scan(&e.CreatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("event with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgEventRepository.Create: %w", err)
	}
	return nil
}

func (r *pgEventRepository) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("pgEventRepository.List: %w", err)
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("pgEventRepository.List scan: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *pgEventRepository) FindByID(ctx context.Context, id string) (*model.Event, error) {
	return r.findOne(ctx, "FindByID", `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *pgEventRepository) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return r.findOne(ctx, "FindBySlug", `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
}

func (r *pgEventRepository) findOne(ctx context.Context, op, query string, arg string) (*model.Event, error) {
	e := &model.Event{}
	if err := scanEvent(r.db.QueryRowContext(ctx, query, arg), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgEventRepository.%s: %w", op, err)
	}
	return e, nil
}

func (r *pgEventRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("pgEventRepository.UpdateStatus: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
