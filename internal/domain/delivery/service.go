package delivery

import (
	"context"
	"time"
)

// Service defines an interface for placing and cancelling one-time
// notifications with the platform delivery layer. This decouples the
// scheduling logic from the concrete transport (Telegram, push, ...).
type Service interface {
	// ScheduleOneTime registers a notification to be sent to the chat at
	// fireAt. It returns the delivery-layer identifier for the pending
	// notification, used later for cancellation.
	ScheduleOneTime(ctx context.Context, chatID int64, title, body string, fireAt time.Time, category string) (string, error)

	// CancelCategory cancels every pending notification of the given
	// category for the chat. Cancelling an empty set is not an error.
	CancelCategory(ctx context.Context, chatID int64, category string) error
}
