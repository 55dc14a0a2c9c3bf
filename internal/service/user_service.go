package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/repository"
	"github.com/stemsi/attendance-portal/internal/response"
)

// UserService handles profile reads and writes behind the gate.
type UserService struct {
	users repository.UserRepository
	log   zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{
		users: users,
		log:   log.With().Str("component", "user_service").Logger(),
	}
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// List retrieves users with pagination.
func (s *UserService) List(ctx context.Context, page, perPage int) ([]model.User, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}
	// Past this page the offset no longer fits in an int.
	if maxPage := math.MaxInt/perPage + 1; page > maxPage {
		page = maxPage
	}

	users, total, err := s.users.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, fmt.Errorf("list users: %w", err)
	}

	return users, &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: (total + perPage - 1) / perPage,
	}, nil
}

// Update applies a partial update. Role changes are dropped unless actor is an
// admin, and an admin cannot demote their own account.
func (s *UserService) Update(ctx context.Context, actor *Claims, id string, req *model.UpdateUserRequest) (*model.User, error) {
	if req.Role != nil && (actor == nil || !actor.IsAdmin()) {
		s.log.Debug().Str("user_id", id).Msg("Ignoring role change from non-admin")
		req.Role = nil
	}
	if req.Role != nil && *req.Role != model.RoleAdmin {
		if err := ForbidSelfDelete(actor, id); err != nil {
			return nil, err
		}
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(u)

	if err := s.users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

// Delete removes a user and, through the store, their attendance.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.Info().Str("user_id", id).Msg("User deleted")
	return nil
}
