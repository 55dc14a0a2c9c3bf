package repository

import (
	"context"
	"errors"
	"time"

	"github.com/stemsi/attendance-portal/internal/model"
)

// Storage errors shared by every backend.
var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateEmail      = errors.New("user with this email already exists")
	ErrDuplicateAttendance = errors.New("attendance already recorded for this student, subject and day")
	ErrUnknownStudent      = errors.New("attendance references an unknown student")
)

// Postgres SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, limit, offset int) ([]model.User, int, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// AttendanceRepository stores immutable attendance records. Insert must be
// atomic with respect to the (student, subject, day) key.
type AttendanceRepository interface {
	Insert(ctx context.Context, rec *model.AttendanceRecord) error
	ListByDay(ctx context.Context, day string) ([]model.AttendanceRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.AttendanceRecord, error)
	CountByStudent(ctx context.Context, studentID string) (int, error)
	// CountSessionsSince counts distinct (subject, day) pairs with at least
	// one record on or after the given day.
	CountSessionsSince(ctx context.Context, day string) (int, error)
}

// SessionRepository tracks logged-out token IDs until they expire.
type SessionRepository interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
