package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stemsi/attendance-portal/internal/model"
	"github.com/stemsi/attendance-portal/internal/repository"
)

// Band thresholds. They do not depend on how total sessions are counted.
const (
	ExcellentThreshold = 85
	GoodThreshold      = 75
)

// Percentage returns present/total*100 rounded half up, or 0 when total is 0.
func Percentage(present, total int) int {
	if total <= 0 || present <= 0 {
		return 0
	}
	return (200*present + total) / (2 * total)
}

// BandFor maps a percentage onto its qualitative band.
func BandFor(percentage int) model.Band {
	switch {
	case percentage >= ExcellentThreshold:
		return model.BandExcellent
	case percentage >= GoodThreshold:
		return model.BandGood
	default:
		return model.BandAtRisk
	}
}

// StatsService derives attendance statistics on demand.
//
// Total sessions are the distinct (subject, day) pairs in which anyone was
// marked present, counted from the student's enrolment day onward.
type StatsService struct {
	attendance repository.AttendanceRepository
	users      repository.UserRepository
	loc        *time.Location
}

func NewStatsService(attendance repository.AttendanceRepository, users repository.UserRepository, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.UTC
	}
	return &StatsService{attendance: attendance, users: users, loc: loc}
}

// ComputeStats aggregates a student's records into counts, percentage and band.
func (s *StatsService) ComputeStats(ctx context.Context, studentID string) (*model.AttendanceStats, error) {
	student, err := s.users.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lookup student: %w", err)
	}

	present, err := s.attendance.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("count attendance: %w", err)
	}

	enrolled := student.CreatedAt.In(s.loc).Format(model.DayLayout)
	total, err := s.attendance.CountSessionsSince(ctx, enrolled)
	if err != nil {
		return nil, fmt.Errorf("count sessions: %w", err)
	}

	// Marks recorded under a clock earlier than enrolment still count as sessions.
	if total < present {
		total = present
	}

	pct := Percentage(present, total)
	return &model.AttendanceStats{
		StudentID:     studentID,
		PresentCount:  present,
		TotalSessions: total,
		Percentage:    pct,
		Band:          BandFor(pct),
	}, nil
}
