package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
)

type MentorRepository interface {
	// Create inserts the mentor user and its profile atomically.
	Create(ctx context.Context, user *model.User, profile *model.MentorProfile) error
	List(ctx context.Context) ([]model.Mentor, error)
}

type pgMentorRepository struct {
	db *sql.DB
}

func NewPgMentorRepository(db *sql.DB) MentorRepository {
	return &pgMentorRepository{db: db}
}

func (r *pgMentorRepository) Create(ctx context.Context, user *model.User, profile *model.MentorProfile) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		if user.Theme == "" {
			user.Theme = model.ThemeLight
		}
		if err := insertUser(ctx, tx, user); err != nil {
			if errors.Is(err, common.ErrConflict) {
				return err
			}
			return fmt.Errorf("pgMentorRepository.Create user: %w", err)
		}

		profile.UserID = user.ID
		query := `INSERT INTO mentor_profiles (user_id, company, domain, experience, bank_name, account_number, ifsc_code, branch)
		          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		          RETURNING created_at, updated_at`
		err := tx.QueryRowContext(ctx, query,
			profile.UserID, profile.Company, profile.Domain, profile.Experience,
			profile.BankName, profile.AccountNumber, profile.IFSCCode, profile.Branch,
		).Scan(&profile.CreatedAt, &profile.UpdatedAt)
		if err != nil {
			return fmt.Errorf("pgMentorRepository.Create profile: %w", err)
		}
		return nil
	})
}

func (r *pgMentorRepository) List(ctx context.Context) ([]model.Mentor, error) {
	query := `
        SELECT u.id, u.email, u.password_hash, u.full_name, u.role, u.enrollment_number,
               u.department, u.theme, u.created_at, u.updated_at,
               mp.user_id, mp.company, mp.domain, mp.experience, mp.bank_name,
               mp.account_number, mp.ifsc_code, mp.branch, mp.created_at, mp.updated_at
        FROM users u
        LEFT JOIN mentor_profiles mp ON mp.user_id = u.id
        WHERE u.role = $1
        ORDER BY u.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, model.RoleMentor)
	if err != nil {
		return nil, fmt.Errorf("pgMentorRepository.List: %w", err)
	}
	defer rows.Close()

	mentors := []model.Mentor{}
	for rows.Next() {
		var (
			m                                              model.Mentor
			pUserID, company, domain, experience, bankName sql.NullString
			accountNumber, ifsc, branch                    sql.NullString
			pCreated, pUpdated                             sql.NullTime
		)
		err := rows.Scan(
			&m.ID, &m.Email, &m.PasswordHash, &m.FullName, &m.Role, &m.EnrollmentNumber,
			&m.Department, &m.Theme, &m.CreatedAt, &m.UpdatedAt,
			&pUserID, &company, &domain, &experience, &bankName,
			&accountNumber, &ifsc, &branch, &pCreated, &pUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("pgMentorRepository.List scan: %w", err)
		}
		if pUserID.Valid {
			m.Profile = &model.MentorProfile{
				UserID:        pUserID.String,
				Company:       company.String,
				Domain:        domain.String,
				Experience:    experience.String,
				BankName:      bankName.String,
				AccountNumber: accountNumber.String,
				IFSCCode:      ifsc.String,
				Branch:        branch.String,
				CreatedAt:     pCreated.Time,
				UpdatedAt:     pUpdated.Time,
			}
		}
		mentors = append(mentors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgMentorRepository.List rows: %w", err)
	}
	return mentors, nil
}
