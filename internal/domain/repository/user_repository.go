package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, tx *sql.Tx, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context, role string) ([]model.User, error)
	UpdateTheme(ctx context.Context, id, theme string) error
	UpdatePasswordHash(ctx context.Context, id, hash string) error
	// DeleteCascade removes the user and every row that references it in
	// one transaction.
	DeleteCascade(ctx context.Context, id string) error
}

const userColumns = `id, email, password_hash, full_name, role, enrollment_number, department, theme, created_at, updated_at`

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func scanUser(row rowScanner, user *model.User) error {
	return row.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &user.Role,
		&user.EnrollmentNumber, &user.Department, &user.Theme, &user.CreatedAt, &user.UpdatedAt,
	)
}

func insertUser(ctx context.Context, q dbtx, user *model.User) error {
	query := `INSERT INTO users (id, email, password_hash, full_name, role, enrollment_number, department, theme)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING created_at, updated_at`
	err := q.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role,
		user.EnrollmentNumber, user.Department, user.Theme,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if common.IsUniqueViolation(err) {
			return fmt.Errorf("email already registered: %w", common.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *pgUserRepository) Create(ctx context.Context, tx *sql.Tx, user *model.User) error {
	if user.Theme == "" {
		user.Theme = model.ThemeLight
	}
	if err := insertUser(ctx, pick(r.db, tx), user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return err
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user := &model.User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, email), user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByEmail: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user := &model.User{}
	if err := scanUser(r.db.QueryRowContext(ctx, query, id), user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindByID: %w", err)
	}
	return user, nil
}

// List returns users newest first. An empty role lists every user.
func (r *pgUserRepository) List(ctx context.Context, role string) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
	          WHERE ($1 = '' OR role = $1)
	          ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("pgUserRepository.List scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.List rows: %w", err)
	}
	return users, nil
}

func (r *pgUserRepository) UpdateTheme(ctx context.Context, id, theme string) error {
	return r.updateColumn(ctx, "UpdateTheme", `UPDATE users SET theme = $1, updated_at = NOW() WHERE id = $2`, theme, id)
}

func (r *pgUserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.updateColumn(ctx, "UpdatePasswordHash", `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, hash, id)
}

func (r *pgUserRepository) updateColumn(ctx context.Context, op, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// cascadeDeletes lists the dependent rows removed before the user row, in
// order.
var cascadeDeletes = []string{
	`DELETE FROM team_members WHERE user_id = $1`,
	`DELETE FROM scores WHERE judge_id = $1`,
	`DELETE FROM team_judges WHERE judge_id = $1`,
	`DELETE FROM mentor_profiles WHERE user_id = $1`,
}

func (r *pgUserRepository) DeleteCascade(ctx context.Context, id string) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, stmt := range cascadeDeletes {
			if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
				return fmt.Errorf("pgUserRepository.DeleteCascade: %w", err)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("pgUserRepository.DeleteCascade: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}
