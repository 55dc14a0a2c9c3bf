package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stemsi/attendance-portal/internal/model"
)

// MemoryUserRepository is a map-backed UserRepository for local runs and tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
	now   func() time.Time

	// onDelete lets the attendance store cascade deletions.
	onDelete func(id string)
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[string]model.User),
		now:   time.Now,
	}
}

// WithClock replaces the time source used for created_at and updated_at.
func (r *MemoryUserRepository) WithClock(now func() time.Time) *MemoryUserRepository {
	r.mu.Lock()
	r.now = now
	r.mu.Unlock()
	return r
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Exists(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.users[id]
	return ok, nil
}

func (r *MemoryUserRepository) List(_ context.Context, limit, offset int) ([]model.User, int, error) {
	r.mu.RLock()
	all := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, u)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].FullName != all[j].FullName {
			return all[i].FullName < all[j].FullName
		}
		return all[i].ID < all[j].ID
	})

	total := len(all)
	if offset < 0 || limit < 0 || offset >= total {
		return []model.User{}, total, nil
	}
	end := offset + limit
	if end > total || end < offset {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(u.Email, "") {
		return ErrDuplicateEmail
	}
	now := r.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	if r.emailTakenLocked(u.Email, u.ID) {
		return ErrDuplicateEmail
	}
	u.CreatedAt = existing.CreatedAt
	u.PasswordHash = existing.PasswordHash
	u.UpdatedAt = r.now()
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.users[id]; !ok {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.users, id)
	cascade := r.onDelete
	r.mu.Unlock()

	if cascade != nil {
		cascade(id)
	}
	return nil
}

func (r *MemoryUserRepository) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastLogin = &at
	r.users[id] = u
	return nil
}

func (r *MemoryUserRepository) emailTakenLocked(email, exceptID string) bool {
	for id, u := range r.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
