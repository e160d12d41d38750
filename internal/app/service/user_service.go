package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"hackathon_hub/internal/common"
	"hackathon_hub/internal/common/security"
	"hackathon_hub/internal/domain/model"
	"hackathon_hub/internal/domain/repository"

	"github.com/google/uuid"
)

// UserService manages user accounts, including the student and mentor
// rosters.
type UserService struct {
	userRepo   repository.UserRepository
	mentorRepo repository.MentorRepository
	logger     *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, mentorRepo repository.MentorRepository, logger *slog.Logger) *UserService {
	return &UserService{userRepo: userRepo, mentorRepo: mentorRepo, logger: logger}
}

type AddStudentRequest struct {
	Email            string  `json:"email"`
	FullName         string  `json:"fullName"`
	EnrollmentNumber string  `json:"enrollmentNumber"`
	Department       *string `json:"department"`
	Password         string  `json:"password"`
}

type AddMentorRequest struct {
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	Password      string `json:"password"`
	Company       string `json:"company"`
	Domain        string `json:"domain"`
	Experience    string `json:"experience"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	Branch        string `json:"branch"`
}

// ListUsers returns users newest first, optionally restricted to one role.
func (s *UserService) ListUsers(ctx context.Context, role string) ([]model.User, error) {
	if role != "" && !model.ValidRole(role) {
		return nil, fmt.Errorf("invalid role %q: %w", role, common.ErrValidation)
	}
	users, err := s.userRepo.List(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) ListStudents(ctx context.Context) ([]model.User, error) {
	return s.ListUsers(ctx, model.RoleStudent)
}

// ListMentors returns mentors with their profiles. Banking details are only
// included when the viewer is an admin.
func (s *UserService) ListMentors(ctx context.Context, viewer security.Claims) ([]model.Mentor, error) {
	mentors, err := s.mentorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}
	if viewer.Role != model.RoleAdmin {
		for i := range mentors {
			if mentors[i].Profile != nil {
				mentors[i].Profile.RedactBanking()
			}
		}
	}
	return mentors, nil
}

// AddStudent registers a student. The password defaults to the enrollment
// number.
func (s *UserService) AddStudent(ctx context.Context, req AddStudentRequest) (*model.User, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	req.EnrollmentNumber = strings.TrimSpace(req.EnrollmentNumber)
	if req.Email == "" || req.FullName == "" || req.EnrollmentNumber == "" {
		return nil, fmt.Errorf("email, fullName and enrollmentNumber are required: %w", common.ErrValidation)
	}
	password := req.Password
	if password == "" {
		password = req.EnrollmentNumber
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	enrollment := req.EnrollmentNumber
	user := &model.User{
		ID:               uuid.NewString(),
		Email:            req.Email,
		PasswordHash:     hash,
		FullName:         req.FullName,
		Role:             model.RoleStudent,
		EnrollmentNumber: &enrollment,
		Department:       req.Department,
		Theme:            model.ThemeLight,
	}
	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("email already registered: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}
	s.logger.InfoContext(ctx, "student added", "user_id", user.ID)
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) AddMentor(ctx context.Context, req AddMentorRequest) (*model.Mentor, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.FullName == "" || req.Password == "" {
		return nil, fmt.Errorf("email, fullName and password are required: %w", common.ErrValidation)
	}
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         model.RoleMentor,
		Theme:        model.ThemeLight,
	}
	profile := &model.MentorProfile{
		Company:       req.Company,
		Domain:        req.Domain,
		Experience:    req.Experience,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		IFSCCode:      req.IFSCCode,
		Branch:        req.Branch,
	}
	if err := s.mentorRepo.Create(ctx, user, profile); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("email already registered: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create mentor: %w", err)
	}
	s.logger.InfoContext(ctx, "mentor added", "user_id", user.ID)
	user.PasswordHash = ""
	return &model.Mentor{User: *user, Profile: profile}, nil
}

// DeleteUser removes any user together with its memberships, scores,
// judge assignments and mentor profile.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("id is required: %w", common.ErrValidation)
	}
	if err := s.userRepo.DeleteCascade(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *UserService) DeleteStudent(ctx context.Context, id string) error {
	return s.deleteWithRole(ctx, id, model.RoleStudent)
}

func (s *UserService) DeleteMentor(ctx context.Context, userID string) error {
	return s.deleteWithRole(ctx, userID, model.RoleMentor)
}

func (s *UserService) deleteWithRole(ctx context.Context, id, role string) error {
	if id == "" {
		return fmt.Errorf("id is required: %w", common.ErrValidation)
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("%s not found: %w", role, common.ErrNotFound)
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.Role != role {
		return fmt.Errorf("%s not found: %w", role, common.ErrNotFound)
	}
	return s.DeleteUser(ctx, id)
}
