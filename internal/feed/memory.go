package feed

import (
	"context"
	"sync"

	"github.com/stemsi/attendance-portal/internal/model"
)

// MemoryFeed is an in-process broadcaster for single-instance runs.
type MemoryFeed struct {
	mu   sync.Mutex
	subs map[chan model.AttendanceEvent]struct{}
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{subs: make(map[chan model.AttendanceEvent]struct{})}
}

// Publish never blocks; slow subscribers miss events.
func (f *MemoryFeed) Publish(_ context.Context, evt model.AttendanceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subs {
		select {
		case ch <- evt:
		default:
		}
	}
	return nil
}

func (f *MemoryFeed) Subscribe(_ context.Context) (<-chan model.AttendanceEvent, func(), error) {
	ch := make(chan model.AttendanceEvent, 16)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, release, nil
}
