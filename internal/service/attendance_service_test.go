package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stemsi/attendance-portal/internal/feed"
	"github.com/stemsi/attendance-portal/internal/model"
)

func TestMarkThenDuplicate(t *testing.T) {
	f := newFixture()
	f.addUser(t, "u1", model.RoleUser)
	att := NewAttendanceService(f.attendance, f.users, nil, time.UTC, testLog)
	stats := NewStatsService(f.attendance, f.users, time.UTC)
	ctx := context.Background()

	before, _ := stats.ComputeStats(ctx, "u1")

	in := MarkInput{StudentID: "u1", Subject: "Algorithms", MarkedBy: "admin1"}
	rec, err := att.Mark(ctx, in)
	if err != nil {
		t.Fatalf("first Mark: %v", err)
	}
	if rec.MarkedBy != "admin1" || rec.Day != att.DayOf(time.Now()) {
		t.Fatalf("record = %+v", rec)
	}

	if _, err := att.Mark(ctx, in); !errors.Is(err, ErrDuplicateAttendance) {
		t.Fatalf("second Mark: expected ErrDuplicateAttendance, got %v", err)
	}

	after, _ := stats.ComputeStats(ctx, "u1")
	if after.PresentCount != before.PresentCount+1 {
		t.Fatalf("present %d -> %d, want +1", before.PresentCount, after.PresentCount)
	}
}

func TestMarkConcurrentExactlyOnce(t *testing.T) {
	f := newFixture()
	f.addUser(t, "u1", model.RoleUser)
	att := NewAttendanceService(f.attendance, f.users, nil, time.UTC, testLog)

	const callers = 50
	var ok, dup int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := att.Mark(context.Background(), MarkInput{StudentID: "u1", Subject: "Algorithms", MarkedBy: "admin1"})
			switch {
			case err == nil:
				atomic.AddInt32(&ok, 1)
			case errors.Is(err, ErrDuplicateAttendance):
				atomic.AddInt32(&dup, 1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if ok != 1 || dup != callers-1 {
		t.Fatalf("ok=%d dup=%d", ok, dup)
	}
	recs, _ := att.ListForUser(context.Background(), "u1")
	if len(recs) != 1 {
		t.Fatalf("%d records stored, want 1", len(recs))
	}
}

func TestMarkMidnightBoundary(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	f := newFixture()
	f.addUser(t, "u1", model.RoleUser)
	clock := &fixedClock{t: time.Date(2026, 3, 2, 23, 59, 59, 0, loc)}
	att := NewAttendanceService(f.attendance, f.users, nil, loc, testLog).WithClock(clock.Now)
	ctx := context.Background()
	in := MarkInput{StudentID: "u1", Subject: "Algorithms", MarkedBy: "admin1"}

	first, err := att.Mark(ctx, in)
	if err != nil {
		t.Fatalf("before midnight: %v", err)
	}
	if first.Day != "2026-03-02" {
		t.Fatalf("day = %s, want 2026-03-02", first.Day)
	}

	// Same instant expressed in UTC is still 2 March locally.
	clock.t = clock.t.UTC()
	if _, err := att.Mark(ctx, in); !errors.Is(err, ErrDuplicateAttendance) {
		t.Fatalf("same local day: expected duplicate, got %v", err)
	}

	clock.t = time.Date(2026, 3, 3, 0, 0, 0, 0, loc)
	second, err := att.Mark(ctx, in)
	if err != nil {
		t.Fatalf("after midnight: %v", err)
	}
	if second.Day != "2026-03-03" {
		t.Fatalf("day = %s, want 2026-03-03", second.Day)
	}
}

func TestMarkValidation(t *testing.T) {
	f := newFixture()
	f.addUser(t, "u1", model.RoleUser)
	att := NewAttendanceService(f.attendance, f.users, nil, time.UTC, testLog)
	ctx := context.Background()

	tests := []MarkInput{
		{StudentID: "", Subject: "Algorithms", MarkedBy: "admin1"},
		{StudentID: "u1", Subject: "  ", MarkedBy: "admin1"},
		{StudentID: "u1", Subject: "Algorithms", MarkedBy: ""},
	}
	for i, in := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			if _, err := att.Mark(ctx, in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}

	today, _ := att.ListToday(ctx)
	if len(today) != 0 {
		t.Fatalf("validation failures stored %d records", len(today))
	}
}

func TestMarkUnknownStudent(t *testing.T) {
	f := newFixture()
	att := NewAttendanceService(f.attendance, f.users, nil, time.UTC, testLog)

	_, err := att.Mark(context.Background(), MarkInput{StudentID: "ghost", Subject: "Algorithms", MarkedBy: "admin1"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMarkTrimsInput(t *testing.T) {
	f := newFixture()
	f.addUser(t, "u1", model.RoleUser)
	att := NewAttendanceService(f.attendance, f.users, nil, time.UTC, testLog)
	ctx := context.Background()

	if _, err := att.Mark(ctx, MarkInput{StudentID: " u1 ", Subject: "Algorithms ", MarkedBy: "admin1"}); err != nil {
		t.Fatalf("Mark: %v", err)
	}
	if _, err := att.Mark(ctx, MarkInput{StudentID: "u1", Subject: "Algorithms", MarkedBy: "admin1"}); !errors.Is(err, ErrDuplicateAttendance) {
		t.Fatalf("expected duplicate after trimming, got %v", err)
	}
}

func TestMarkPublishesToFeed(t *testing.T) {
	f := newFixture()
	f.addUser(t, "u1", model.RoleUser)
	mf := feed.NewMemoryFeed()
	att := NewAttendanceService(f.attendance, f.users, mf, time.UTC, testLog)
	ctx := context.Background()

	events, release, _ := mf.Subscribe(ctx)
	defer release()

	rec, err := att.Mark(ctx, MarkInput{StudentID: "u1", Subject: "Algorithms", MarkedBy: "admin1"})
	if err != nil {
		t.Fatalf("Mark: %v", err)
	}
	_, _ = att.Mark(ctx, MarkInput{StudentID: "u1", Subject: "Algorithms", MarkedBy: "admin1"})

	select {
	case evt := <-events:
		if evt.Type != model.AttendanceEventRecorded || evt.Record.ID != rec.ID {
			t.Fatalf("event = %+v", evt)
		}
	case <-time.After(time.Second):
		t.Fatal("no event published")
	}

	select {
	case evt := <-events:
		t.Fatalf("duplicate published an event: %+v", evt)
	default:
	}
}

func TestListForUserUnknown(t *testing.T) {
	f := newFixture()
	att := NewAttendanceService(f.attendance, f.users, nil, time.UTC, testLog)

	if _, err := att.ListForUser(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
