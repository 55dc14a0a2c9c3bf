package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles accounts, passwords and token lifecycle.
type AuthService struct {
	tokens     *TokenService
	users      repository.UserRepository
	sessions   repository.SessionRepository
	bcryptCost int
	log        zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	tokens *TokenService,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	bcryptCost int,
	log zerolog.Logger,
) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		tokens:     tokens,
		users:      users,
		sessions:   sessions,
		bcryptCost: bcryptCost,
		log:        log.With().Str("component", "auth_service").Logger(),
	}
}

// Tokens exposes the validator used by the HTTP middleware.
func (s *AuthService) Tokens() *TokenService {
	return s.tokens
}

// Register creates a regular user account.
func (s *AuthService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	return s.CreateAccount(ctx, req, model.RoleUser)
}

// CreateAccount creates an account with the given role and a bcrypt-hashed password.
func (s *AuthService) CreateAccount(ctx context.Context, req *model.RegisterRequest, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:                 uuid.NewString(),
		Role:               role,
		FullName:           strings.TrimSpace(req.FullName),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:       string(hash),
		Department:         strings.TrimSpace(req.Department),
		StudentNumber:      req.StudentNumber,
		RegistrationNumber: strings.TrimSpace(req.RegistrationNumber),
		Year:               req.Year,
		Section:            req.Section,
		ACMMember:          req.ACMMember,
		ACMRole:            req.ACMRole,
		IsActive:           true,
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("Account created")
	return u, nil
}

// Login checks credentials and issues a bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.users.TouchLastLogin(ctx, u.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", u.ID).Msg("Failed to record last login")
	} else {
		u.LastLogin = &now
	}

	return &model.LoginResponse{Token: token, ExpiresAt: exp, User: *u}, nil
}

// Logout revokes the presented token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	return s.sessions.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// IsRevoked reports whether a token ID has been logged out.
func (s *AuthService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.sessions.IsRevoked(ctx, jti)
}
