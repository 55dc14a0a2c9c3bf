package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/attendance-portal/internal/config"
	"github.com/stemsi/attendance-portal/internal/model"
)

// RedisFeed uses Pub/Sub so every API replica sees every mark.
type RedisFeed struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewRedisFeed(rdb *redis.Client, log zerolog.Logger) *RedisFeed {
	return &RedisFeed{
		rdb: rdb,
		log: log.With().Str("component", "attendance_feed").Logger(),
	}
}

func (f *RedisFeed) Publish(ctx context.Context, evt model.AttendanceEvent) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := f.rdb.Publish(ctx, config.CacheKey.AttendanceFeedChannel(), payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (f *RedisFeed) Subscribe(ctx context.Context) (<-chan model.AttendanceEvent, func(), error) {
	sub := f.rdb.Subscribe(ctx, config.CacheKey.AttendanceFeedChannel())
	// Wait for the subscription confirmation so early publishes are not lost.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("subscribe: %w", err)
	}

	out := make(chan model.AttendanceEvent, 16)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var evt model.AttendanceEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				f.log.Warn().Err(err).Msg("Dropping malformed feed message")
				continue
			}
			select {
			case out <- evt:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = sub.Close() }, nil
}
