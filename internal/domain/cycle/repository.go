package cycle

import (
	"context"
	"time"
)

// Repository defines operations for persisting and retrieving cycle entries.
type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// ListByUser returns the user's entries ordered by start date descending.
	ListByUser(ctx context.Context, userID int64, limit int) ([]*Entry, error)
	// DeleteLatest removes the most recently logged entry for the user.
	DeleteLatest(ctx context.Context, userID int64) error
	// SetEndDate marks the latest open entry as ended on the given date.
	SetEndDate(ctx context.Context, userID int64, endDate time.Time) error
}
