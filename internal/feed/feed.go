// Package feed broadcasts newly recorded attendance to live dashboard subscribers.
package feed

import (
	"context"

	"github.com/stemsi/attendance-portal/internal/model"
)

// Feed fans attendance events out to subscribers. Delivery is best effort.
type Feed interface {
	Publish(ctx context.Context, evt model.AttendanceEvent) error
	// Subscribe returns a channel of events and a function that releases it.
	Subscribe(ctx context.Context) (<-chan model.AttendanceEvent, func(), error)
}
