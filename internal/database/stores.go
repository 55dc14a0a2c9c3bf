package database

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/config"
	"github.com/stemsi/attendance-portal/internal/feed"
	"github.com/stemsi/attendance-portal/internal/repository"
)

// Stores bundles the storage the services run on.
type Stores struct {
	Users      repository.UserRepository
	Attendance repository.AttendanceRepository
	Sessions   repository.SessionRepository
	Feed       feed.Feed
	// Redis is nil for the memory backend.
	Redis *redis.Client

	closers []func()
}

// Close releases every connection opened by OpenStores.
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// OpenStores builds the storage selected by cfg.StorageBackend.
func OpenStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	if cfg.StorageBackend == config.StorageMemory {
		log.Warn().Msg("Using in-memory storage; data is lost on restart")
		return NewMemoryStores(), nil
	}

	pool, err := NewPostgresPool(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	rdb, err := NewRedisClient(ctx, cfg, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &Stores{
		Users:      repository.NewPostgresUserRepository(pool),
		Attendance: repository.NewPostgresAttendanceRepository(pool),
		Sessions:   repository.NewRedisSessionRepository(rdb),
		Feed:       feed.NewRedisFeed(rdb, log),
		Redis:      rdb,
		closers:    []func(){pool.Close, func() { _ = rdb.Close() }},
	}, nil
}

// NewMemoryStores returns process-local storage.
func NewMemoryStores() *Stores {
	users := repository.NewMemoryUserRepository()
	return &Stores{
		Users:      users,
		Attendance: repository.NewMemoryAttendanceRepository(users),
		Sessions:   repository.NewMemorySessionRepository(),
		Feed:       feed.NewMemoryFeed(),
	}
}
