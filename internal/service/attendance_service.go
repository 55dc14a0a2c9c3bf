package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/feed"
	"github.com/stemsi/attendance-portal/internal/metrics"
	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/repository"
)

// MarkInput identifies one attendance mark.
type MarkInput struct {
	StudentID string
	Subject   string
	MarkedBy  string
}

// AttendanceService records attendance exactly once per student, subject and
// calendar day, and lists recorded attendance.
type AttendanceService struct {
	attendance repository.AttendanceRepository
	users      repository.UserRepository
	feed       feed.Feed
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
}

// NewAttendanceService creates an AttendanceService. Calendar days are
// computed in loc. A nil feed disables live broadcasting.
func NewAttendanceService(
	attendance repository.AttendanceRepository,
	users repository.UserRepository,
	f feed.Feed,
	loc *time.Location,
	log zerolog.Logger,
) *AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceService{
		attendance: attendance,
		users:      users,
		feed:       f,
		loc:        loc,
		now:        time.Now,
		log:        log.With().Str("component", "attendance_service").Logger(),
	}
}

// WithClock replaces the time source.
func (s *AttendanceService) WithClock(now func() time.Time) *AttendanceService {
	s.now = now
	return s
}

// DayOf returns the attendance day t falls on.
func (s *AttendanceService) DayOf(t time.Time) string {
	return t.In(s.loc).Format(model.DayLayout)
}

// Mark records that in.StudentID attended in.Subject today. A second mark
// for the same key on the same day fails with ErrDuplicateAttendance.
func (s *AttendanceService) Mark(ctx context.Context, in MarkInput) (*model.AttendanceRecord, error) {
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.Subject = strings.TrimSpace(in.Subject)
	in.MarkedBy = strings.TrimSpace(in.MarkedBy)

	switch {
	case in.StudentID == "":
		metrics.AttendanceMarks.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: student_id is required", ErrValidation)
	case in.Subject == "":
		metrics.AttendanceMarks.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: subject is required", ErrValidation)
	case in.MarkedBy == "":
		metrics.AttendanceMarks.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: marked_by is required", ErrValidation)
	}

	exists, err := s.users.Exists(ctx, in.StudentID)
	if err != nil {
		metrics.AttendanceMarks.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("lookup student: %w", err)
	}
	if !exists {
		metrics.AttendanceMarks.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: student %s", ErrNotFound, in.StudentID)
	}

	now := s.now()
	rec := &model.AttendanceRecord{
		ID:         uuid.NewString(),
		StudentID:  in.StudentID,
		Subject:    in.Subject,
		MarkedBy:   in.MarkedBy,
		RecordedAt: now.UTC(),
		Day:        s.DayOf(now),
	}

	if err := s.attendance.Insert(ctx, rec); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateAttendance):
			metrics.AttendanceMarks.WithLabelValues(metrics.OutcomeDuplicate).Inc()
			s.log.Info().
				Str("student_id", rec.StudentID).
				Str("subject", rec.Subject).
				Str("day", rec.Day).
				Str("outcome", metrics.OutcomeDuplicate).
				Msg("Attendance already recorded")
			return nil, ErrDuplicateAttendance
		case errors.Is(err, repository.ErrUnknownStudent):
			// Student deleted between the existence check and the insert.
			metrics.AttendanceMarks.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, fmt.Errorf("%w: student %s", ErrNotFound, in.StudentID)
		default:
			metrics.AttendanceMarks.WithLabelValues(metrics.OutcomeError).Inc()
			return nil, fmt.Errorf("insert attendance: %w", err)
		}
	}

	metrics.AttendanceMarks.WithLabelValues(metrics.OutcomeRecorded).Inc()
	s.log.Info().
		Str("record_id", rec.ID).
		Str("student_id", rec.StudentID).
		Str("subject", rec.Subject).
		Str("marked_by", rec.MarkedBy).
		Str("day", rec.Day).
		Msg("Attendance recorded")

	if s.feed != nil {
		evt := model.AttendanceEvent{Type: model.AttendanceEventRecorded, Record: *rec}
		if err := s.feed.Publish(ctx, evt); err != nil {
			s.log.Warn().Err(err).Str("record_id", rec.ID).Msg("Feed publish failed")
		}
	}

	return rec, nil
}

// ListToday returns every record for the current attendance day, newest first.
func (s *AttendanceService) ListToday(ctx context.Context) ([]model.AttendanceRecord, error) {
	return s.attendance.ListByDay(ctx, s.DayOf(s.now()))
}

// ListForUser returns a user's attendance history, newest first.
func (s *AttendanceService) ListForUser(ctx context.Context, userID string) ([]model.AttendanceRecord, error) {
	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}
	return s.attendance.ListByStudent(ctx, userID)
}
