package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/stemsi/attendance-portal/internal/model"
)

type dedupKey struct {
	studentID string
	subject   string
	day       string
}

// MemoryAttendanceRepository mirrors the Postgres unique index with a key set
// checked and updated inside one critical section.
type MemoryAttendanceRepository struct {
	mu      sync.RWMutex
	records []model.AttendanceRecord
	keys    map[dedupKey]struct{}
	users   *MemoryUserRepository
}

// NewMemoryAttendanceRepository links the store to users for the foreign key
// check and delete cascade.
func NewMemoryAttendanceRepository(users *MemoryUserRepository) *MemoryAttendanceRepository {
	r := &MemoryAttendanceRepository{
		keys:  make(map[dedupKey]struct{}),
		users: users,
	}
	if users != nil {
		users.mu.Lock()
		users.onDelete = r.deleteStudent
		users.mu.Unlock()
	}
	return r
}

// Insert checks the student under r.mu. A concurrent user delete either runs
// first and is seen here, or cascades after this unlock and removes the row.
func (r *MemoryAttendanceRepository) Insert(ctx context.Context, rec *model.AttendanceRecord) error {
	key := dedupKey{studentID: rec.StudentID, subject: rec.Subject, day: rec.Day}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.users != nil {
		if ok, _ := r.users.Exists(ctx, rec.StudentID); !ok {
			return ErrUnknownStudent
		}
	}
	if _, dup := r.keys[key]; dup {
		return ErrDuplicateAttendance
	}
	r.keys[key] = struct{}{}
	r.records = append(r.records, *rec)
	return nil
}

func (r *MemoryAttendanceRepository) ListByDay(_ context.Context, day string) ([]model.AttendanceRecord, error) {
	return r.filter(func(rec model.AttendanceRecord) bool { return rec.Day == day }), nil
}

func (r *MemoryAttendanceRepository) ListByStudent(_ context.Context, studentID string) ([]model.AttendanceRecord, error) {
	return r.filter(func(rec model.AttendanceRecord) bool { return rec.StudentID == studentID }), nil
}

func (r *MemoryAttendanceRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	recs, _ := r.ListByStudent(ctx, studentID)
	return len(recs), nil
}

func (r *MemoryAttendanceRepository) CountSessionsSince(_ context.Context, day string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type session struct{ subject, day string }
	seen := make(map[session]struct{})
	for _, rec := range r.records {
		// YYYY-MM-DD compares lexically in date order.
		if rec.Day >= day {
			seen[session{rec.Subject, rec.Day}] = struct{}{}
		}
	}
	return len(seen), nil
}

func (r *MemoryAttendanceRepository) filter(keep func(model.AttendanceRecord) bool) []model.AttendanceRecord {
	r.mu.RLock()
	out := []model.AttendanceRecord{}
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out
}

func (r *MemoryAttendanceRepository) deleteStudent(studentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.StudentID == studentID {
			delete(r.keys, dedupKey{studentID: rec.StudentID, subject: rec.Subject, day: rec.Day})
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
}
