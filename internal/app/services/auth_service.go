package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/yigit/cyberclub/internal/app/models"
	"github.com/yigit/cyberclub/internal/app/models/dto"
	"github.com/yigit/cyberclub/internal/pkg/apperrors"
	"github.com/yigit/cyberclub/internal/pkg/auth"
	"github.com/yigit/cyberclub/internal/pkg/validation"
)

// UserStore is the user persistence contract
type UserStore interface {
	Store[models.User]
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SetRole(ctx context.Context, id string, role models.RoleType) (*models.User, error)
}

// AuthService handles authentication operations
type AuthService struct {
	users      UserStore
	jwtService *auth.JWTService
	hasher     auth.PasswordHasher
	logger     zerolog.Logger

	// dummyHash is compared against when the email is unknown so both
	// login failure paths cost one bcrypt comparison.
	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserStore, jwtService *auth.JWTService, hasher auth.PasswordHasher, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:      users,
		jwtService: jwtService,
		hasher:     hasher,
		logger:     logger,
	}
}

// Register creates a user with the user role. No token is issued.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := validation.NormalizeEmail(req.Email)

	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	return s.createUser(ctx, name, email, req.Password, models.RoleUser)
}

func (s *AuthService) createUser(ctx context.Context, name, email, password string, role models.RoleType) (*models.User, error) {
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	// The unique index still catches a concurrent registration that slipped
	// past the pre-check.
	user, err := s.users.Create(ctx, &models.User{
		Name:     name,
		Email:    email,
		Password: hash,
		Role:     role,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("userID", user.ID).Str("role", string(role)).Msg("User registered")
	return user, nil
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := validation.NormalizeEmail(req.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			s.hasher.Check(s.unknownUserHash(), req.Password)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Check(user.Password, req.Password) {
		s.logger.Info().Str("userID", user.ID).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
		User:      user,
	}, nil
}

func (s *AuthService) unknownUserHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password-0")
	})
	return s.dummyHash
}

// Me returns the user behind a verified token
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

// ListUsers returns every user
func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// SetRole changes a user's role
func (s *AuthService) SetRole(ctx context.Context, id string, role models.RoleType) (*models.User, error) {
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}
	user, err := s.users.SetRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("userID", id).Str("role", string(role)).Msg("User role changed")
	return user, nil
}

// DeleteUser removes a user. Likes they left on posts stay as stale ids.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("userID", id).Msg("User deleted")
	return nil
}

// EnsureAdmin creates an admin account for email unless one exists. An
// existing non-admin account with that email is promoted.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, error) {
	email = validation.NormalizeEmail(email)

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return existing, nil
		}
		return s.users.SetRole(ctx, existing.ID, models.RoleAdmin)
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return nil, err
	}

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	return s.createUser(ctx, name, email, password, models.RoleAdmin)
}
