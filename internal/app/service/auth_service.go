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

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	GenerateToken(c security.Claims) (string, error)
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
	logger   *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer, logger *slog.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, logger: logger}
}

type SignupRequest struct {
	Email            string  `json:"email"`
	Password         string  `json:"password"`
	FullName         string  `json:"fullName"`
	Role             string  `json:"role"`
	EnrollmentNumber *string `json:"enrollmentNumber"`
	Department       *string `json:"department"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"-"`
}

// MeResponse is the session identity merged with the current user row.
type MeResponse struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	Role             string  `json:"role"`
	FullName         string  `json:"fullName"`
	Theme            string  `json:"theme"`
	EnrollmentNumber *string `json:"enrollmentNumber"`
}

var errInvalidCredentials = fmt.Errorf("Invalid email or password: %w", common.ErrUnauthorized)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return nil, fmt.Errorf("email, password and fullName are required: %w", common.ErrValidation)
	}
	if req.Role == "" {
		req.Role = model.RoleStudent
	}
	if !model.ValidRole(req.Role) {
		return nil, fmt.Errorf("invalid role %q: %w", req.Role, common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:               uuid.NewString(),
		Email:            req.Email,
		PasswordHash:     hashedPassword,
		FullName:         req.FullName,
		Role:             req.Role,
		EnrollmentNumber: req.EnrollmentNumber,
		Department:       req.Department,
		Theme:            model.ThemeLight,
	}

	if err := s.userRepo.Create(ctx, nil, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, fmt.Errorf("email already registered: %w", common.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.InfoContext(ctx, "user signed up", "user_id", user.ID, "role", user.Role)
	return s.issue(user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	ok, legacy := security.CheckPasswordHash(req.Password, user.PasswordHash)
	if !ok {
		return nil, errInvalidCredentials
	}
	if legacy {
		s.upgradePassword(ctx, user.ID, req.Password)
	}

	return s.issue(user)
}

// upgradePassword replaces a legacy encoded password with a bcrypt hash.
// Failure is logged and the login proceeds.
func (s *AuthService) upgradePassword(ctx context.Context, userID, password string) {
	hash, err := security.HashPassword(password)
	if err == nil {
		err = s.userRepo.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "failed to upgrade legacy password", "user_id", userID, "error", err)
		return
	}
	s.logger.InfoContext(ctx, "upgraded legacy password hash", "user_id", userID)
}

func (s *AuthService) issue(user *model.User) (*AuthResponse, error) {
	token, err := s.tokens.GenerateToken(security.Claims{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w: %w", common.ErrInternalServer, err)
	}
	user.PasswordHash = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// Me returns the session identity refreshed from the database. A session
// whose user row is gone is unauthorized.
func (s *AuthService) Me(ctx context.Context, claims security.Claims) (*MeResponse, error) {
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("session user no longer exists: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &MeResponse{
		ID:               claims.UserID,
		Email:            user.Email,
		Role:             claims.Role,
		FullName:         user.FullName,
		Theme:            user.Theme,
		EnrollmentNumber: user.EnrollmentNumber,
	}, nil
}

func (s *AuthService) UpdateTheme(ctx context.Context, userID, theme string) (*model.User, error) {
	if !model.ValidTheme(theme) {
		return nil, fmt.Errorf("theme must be light, dark or system: %w", common.ErrValidation)
	}
	if err := s.userRepo.UpdateTheme(ctx, userID, theme); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("user not found: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update theme: %w", err)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	user.PasswordHash = ""
	return user, nil
}
