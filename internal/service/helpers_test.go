package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/repository"
)

var testLog = zerolog.New(io.Discard)

type fixture struct {
	users      *repository.MemoryUserRepository
	attendance *repository.MemoryAttendanceRepository
	sessions   *repository.MemorySessionRepository
}

func newFixture() *fixture {
	users := repository.NewMemoryUserRepository()
	return &fixture{
		users:      users,
		attendance: repository.NewMemoryAttendanceRepository(users),
		sessions:   repository.NewMemorySessionRepository(),
	}
}

func (f *fixture) addUser(t *testing.T, id string, role model.Role) {
	t.Helper()
	u := &model.User{
		ID: id, Role: role, FullName: id, Email: id + "@example.edu",
		Department: "CS", RegistrationNumber: "REG-" + id, IsActive: true,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
}

// fixedClock returns a settable clock.
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }
