package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stemsi/attendance-portal/internal/model"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		present, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 10, 0},
		{1, 1, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds half up
		{17, 20, 85},
		{67, 80, 84}, // 83.75
		{3, 4, 75},
		{37, 50, 74},
	}
	for _, tt := range tests {
		if got := Percentage(tt.present, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.present, tt.total, got, tt.want)
		}
	}
}

func TestBandBoundaries(t *testing.T) {
	tests := []struct {
		pct  int
		want model.Band
	}{
		{100, model.BandExcellent},
		{85, model.BandExcellent},
		{84, model.BandGood},
		{75, model.BandGood},
		{74, model.BandAtRisk},
		{0, model.BandAtRisk},
	}
	for _, tt := range tests {
		if got := BandFor(tt.pct); got != tt.want {
			t.Errorf("BandFor(%d) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestPercentageMonotonic(t *testing.T) {
	for total := 1; total <= 60; total++ {
		prev := -1
		for present := 0; present <= total; present++ {
			got := Percentage(present, total)
			if got < prev {
				t.Fatalf("Percentage(%d, %d) = %d dropped below %d", present, total, got, prev)
			}
			prev = got
		}
	}
}

func TestComputeStats(t *testing.T) {
	f := newFixture()
	enrolled := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	f.users.WithClock(func() time.Time { return enrolled })
	f.addUser(t, "u1", model.RoleUser)
	f.addUser(t, "u2", model.RoleUser)

	clock := &fixedClock{t: enrolled.Add(2 * time.Hour)}
	att := NewAttendanceService(f.attendance, f.users, nil, time.UTC, testLog).WithClock(clock.Now)
	stats := NewStatsService(f.attendance, f.users, time.UTC)
	ctx := context.Background()

	// Four sessions over two days; u1 attends three of them.
	mark := func(student, subject string) {
		t.Helper()
		if _, err := att.Mark(ctx, MarkInput{StudentID: student, Subject: subject, MarkedBy: "admin1"}); err != nil {
			t.Fatalf("Mark(%s, %s): %v", student, subject, err)
		}
	}
	mark("u1", "Algorithms")
	mark("u2", "Databases")
	clock.t = clock.t.Add(24 * time.Hour)
	mark("u1", "Algorithms")
	mark("u1", "Networks")

	got, err := stats.ComputeStats(ctx, "u1")
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	if got.PresentCount != 3 || got.TotalSessions != 4 || got.Percentage != 75 || got.Band != model.BandGood {
		t.Fatalf("stats = %+v", got)
	}

	again, _ := stats.ComputeStats(ctx, "u1")
	if *again != *got {
		t.Fatalf("second call differs: %+v vs %+v", again, got)
	}
}

func TestComputeStatsIgnoresSessionsBeforeEnrolment(t *testing.T) {
	f := newFixture()
	day1 := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	f.users.WithClock(func() time.Time { return day1 })
	f.addUser(t, "early", model.RoleUser)

	clock := &fixedClock{t: day1}
	att := NewAttendanceService(f.attendance, f.users, nil, time.UTC, testLog).WithClock(clock.Now)
	ctx := context.Background()
	_, _ = att.Mark(ctx, MarkInput{StudentID: "early", Subject: "Algorithms", MarkedBy: "admin1"})

	day3 := day1.Add(48 * time.Hour)
	f.users.WithClock(func() time.Time { return day3 })
	f.addUser(t, "late", model.RoleUser)
	clock.t = day3
	_, _ = att.Mark(ctx, MarkInput{StudentID: "late", Subject: "Algorithms", MarkedBy: "admin1"})

	got, err := NewStatsService(f.attendance, f.users, time.UTC).ComputeStats(ctx, "late")
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	if got.TotalSessions != 1 || got.Percentage != 100 || got.Band != model.BandExcellent {
		t.Fatalf("stats = %+v", got)
	}
}

func TestComputeStatsWithoutSessions(t *testing.T) {
	f := newFixture()
	f.addUser(t, "u1", model.RoleUser)

	got, err := NewStatsService(f.attendance, f.users, time.UTC).ComputeStats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ComputeStats: %v", err)
	}
	if got.Percentage != 0 || got.Band != model.BandAtRisk {
		t.Fatalf("stats = %+v", got)
	}
}

func TestComputeStatsUnknownStudent(t *testing.T) {
	f := newFixture()
	_, err := NewStatsService(f.attendance, f.users, time.UTC).ComputeStats(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
