// internal/domain/notification/store.go
package notification

import (
	"context"
)

// ScheduleStore persists the notification schedule produced by a run.
// Writes replace the user's stored list wholesale; there are no partial
// updates.
type ScheduleStore interface {
	Save(ctx context.Context, userID int64, list []CycleNotification) error
	// Load returns the stored schedule. A missing or unreadable record
	// yields an empty list, never an error.
	Load(ctx context.Context, userID int64) []CycleNotification
}
