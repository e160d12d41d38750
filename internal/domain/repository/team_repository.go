package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/domain/model"
)

type TeamRepository interface {
	// Create inserts the team and its initial members atomically.
	Create(ctx context.Context, team *model.Team, memberIDs []string) error
	// List returns teams newest first; an empty eventID lists all events.
	List(ctx context.Context, eventID string) ([]model.Team, error)
	FindByID(ctx context.Context, id string) (*model.Team, error)

	ListMembers(ctx context.Context, teamID string) ([]model.User, error)
	// MembersByTeam returns members of each listed team keyed by team id.
	MembersByTeam(ctx context.Context, teamIDs []string) (map[string][]model.User, error)
	AddMember(ctx context.Context, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) error

	ListJudges(ctx context.Context, teamID string) ([]model.User, error)
	AssignJudge(ctx context.Context, teamID, judgeID string) error
	RemoveJudge(ctx context.Context, teamID, judgeID string) error
	// FindAssignment returns the judge's assignment to the team, or
	// common.ErrNotFound.
	FindAssignment(ctx context.Context, teamID, judgeID string) (*model.TeamJudge, error)
	ListAssignedTeams(ctx context.Context, judgeID, eventID string) ([]model.Team, error)
}

type pgTeamRepository struct {
	db *sql.DB
}

func NewPgTeamRepository(db *sql.DB) TeamRepository {
	return &pgTeamRepository{db: db}
}

func (r *pgTeamRepository) Create(ctx context.Context, team *model.Team, memberIDs []string) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `INSERT INTO teams (id, event_id, name) VALUES ($1, $2, $3) RETURNING created_at`
		if err := tx.QueryRowContext(ctx, query, team.ID, team.EventID, team.Name).Scan(&team.CreatedAt); err != nil {
			if common.IsForeignKeyViolation(err) {
				return fmt.Errorf("event does not exist: %w", common.ErrValidation)
			}
			return fmt.Errorf("pgTeamRepository.Create: %w", err)
		}
		for _, userID := range memberIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				team.ID, userID)
			if err != nil {
				if common.IsForeignKeyViolation(err) {
					return fmt.Errorf("member %s does not exist: %w", userID, common.ErrValidation)
				}
				return fmt.Errorf("pgTeamRepository.Create member: %w", err)
			}
		}
		team.MemberCount = len(memberIDs)
		return nil
	})
}

func (r *pgTeamRepository) List(ctx context.Context, eventID string) ([]model.Team, error) {
	query := `
        SELECT t.id, t.event_id, t.name, t.created_at, COUNT(tm.user_id)
        FROM teams t
        LEFT JOIN team_members tm ON tm.team_id = t.id
        WHERE ($1 = '' OR t.event_id = $1)
        GROUP BY t.id
        ORDER BY t.created_at DESC`
	return r.queryTeams(ctx, "List", query, eventID)
}

func (r *pgTeamRepository) ListAssignedTeams(ctx context.Context, judgeID, eventID string) ([]model.Team, error) {
	query := `
        SELECT t.id, t.event_id, t.name, t.created_at,
               (SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.id)
        FROM team_judges tj
        JOIN teams t ON t.id = tj.team_id
        WHERE tj.judge_id = $1 AND tj.event_id = $2
        ORDER BY t.name`
	return r.queryTeams(ctx, "ListAssignedTeams", query, judgeID, eventID)
}

func (r *pgTeamRepository) queryTeams(ctx context.Context, op, query string, args ...any) ([]model.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgTeamRepository.%s: %w", op, err)
	}
	defer rows.Close()

	teams := []model.Team{}
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.CreatedAt, &t.MemberCount); err != nil {
			return nil, fmt.Errorf("pgTeamRepository.%s scan: %w", op, err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTeamRepository.%s rows: %w", op, err)
	}
	return teams, nil
}

func (r *pgTeamRepository) FindByID(ctx context.Context, id string) (*model.Team, error) {
	query := `
        SELECT t.id, t.event_id, t.name, t.created_at,
               (SELECT COUNT(*) FROM team_members tm WHERE tm.team_id = t.id)
        FROM teams t WHERE t.id = $1`
	t := &model.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.EventID, &t.Name, &t.CreatedAt, &t.MemberCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTeamRepository.FindByID: %w", err)
	}
	return t, nil
}

func (r *pgTeamRepository) ListMembers(ctx context.Context, teamID string) ([]model.User, error) {
	query := `SELECT ` + prefixed("u", userColumns) + `
	          FROM team_members tm JOIN users u ON u.id = tm.user_id
	          WHERE tm.team_id = $1
	          ORDER BY u.full_name`
	return r.queryUsers(ctx, "ListMembers", query, teamID)
}

func (r *pgTeamRepository) ListJudges(ctx context.Context, teamID string) ([]model.User, error) {
	query := `SELECT ` + prefixed("u", userColumns) + `
	          FROM team_judges tj JOIN users u ON u.id = tj.judge_id
	          WHERE tj.team_id = $1
	          ORDER BY u.full_name`
	return r.queryUsers(ctx, "ListJudges", query, teamID)
}

func (r *pgTeamRepository) queryUsers(ctx context.Context, op, query string, args ...any) ([]model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pgTeamRepository.%s: %w", op, err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := scanUser(rows, &u); err != nil {
			return nil, fmt.Errorf("pgTeamRepository.%s scan: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTeamRepository.%s rows: %w", op, err)
	}
	return users, nil
}

func (r *pgTeamRepository) MembersByTeam(ctx context.Context, teamIDs []string) (map[string][]model.User, error) {
	out := make(map[string][]model.User, len(teamIDs))
	if len(teamIDs) == 0 {
		return out, nil
	}
	query := `SELECT tm.team_id, ` + prefixed("u", userColumns) + `
	          FROM team_members tm JOIN users u ON u.id = tm.user_id
	          WHERE tm.team_id = ANY($1)
	          ORDER BY u.full_name`
	rows, err := r.db.QueryContext(ctx, query, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("pgTeamRepository.MembersByTeam: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			teamID string
			u      model.User
		)
		err := rows.Scan(&teamID,
			&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.Role,
			&u.EnrollmentNumber, &u.Department, &u.Theme, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("pgTeamRepository.MembersByTeam scan: %w", err)
		}
		out[teamID] = append(out[teamID], u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgTeamRepository.MembersByTeam rows: %w", err)
	}
	return out, nil
}

func (r *pgTeamRepository) AddMember(ctx context.Context, teamID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		teamID, userID)
	if err != nil {
		if common.IsForeignKeyViolation(err) {
			return fmt.Errorf("team or user does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgTeamRepository.AddMember: %w", err)
	}
	return nil
}

func (r *pgTeamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	return r.deleteLink(ctx, "RemoveMember", `DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID)
}

// AssignJudge copies the team's event onto the assignment row.
func (r *pgTeamRepository) AssignJudge(ctx context.Context, teamID, judgeID string) error {
	query := `INSERT INTO team_judges (team_id, judge_id, event_id)
	          SELECT t.id, $2, t.event_id FROM teams t WHERE t.id = $1
	          ON CONFLICT DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, teamID, judgeID)
	if err != nil {
		if common.IsForeignKeyViolation(err) {
			return fmt.Errorf("judge does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgTeamRepository.AssignJudge: %w", err)
	}
	return nil
}

func (r *pgTeamRepository) RemoveJudge(ctx context.Context, teamID, judgeID string) error {
	return r.deleteLink(ctx, "RemoveJudge", `DELETE FROM team_judges WHERE team_id = $1 AND judge_id = $2`, teamID, judgeID)
}

func (r *pgTeamRepository) deleteLink(ctx context.Context, op, query, teamID, otherID string) error {
	res, err := r.db.ExecContext(ctx, query, teamID, otherID)
	if err != nil {
		return fmt.Errorf("pgTeamRepository.%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgTeamRepository) FindAssignment(ctx context.Context, teamID, judgeID string) (*model.TeamJudge, error) {
	tj := &model.TeamJudge{}
	err := r.db.QueryRowContext(ctx,
		`SELECT team_id, judge_id, event_id, assigned_at FROM team_judges WHERE team_id = $1 AND judge_id = $2`,
		teamID, judgeID,
	).Scan(&tj.TeamID, &tj.JudgeID, &tj.EventID, &tj.AssignedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgTeamRepository.FindAssignment: %w", err)
	}
	return tj, nil
}
