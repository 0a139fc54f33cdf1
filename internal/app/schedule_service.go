// internal/app/schedule_service.go
package app

import (
	"context"
	"fmt"
	"time"

	"cycle_companion_bot/internal/domain/cycle"
	"cycle_companion_bot/internal/domain/delivery"
	"cycle_companion_bot/internal/domain/notification"
	"cycle_companion_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
)

// historyLimit bounds how many entries a scheduling run loads; predictions
// only ever look at the most recent gaps.
const historyLimit = 12

// TextLookup resolves the localized title and body for a reminder.
type TextLookup func(lang user.Language, key notification.MessageKey) (title, body string)

// ScheduleResult summarizes one scheduling run. The run itself never fails:
// everything that went wrong is reflected here and in the logs, not in a
// returned error.
type ScheduleResult struct {
	Scheduled    int
	SkippedStale int
	Failures     []string
}

// ScheduleService coordinates one complete scheduling pass: cancel the prior
// batch, derive candidate reminders from the user's cycle history, place
// each safe candidate with the delivery service, and persist the resulting
// schedule wholesale.
type ScheduleService struct {
	cycleRepo cycle.Repository
	store     notification.ScheduleStore
	delivery  delivery.Service
	lookup    TextLookup
	logger    *logrus.Entry
	now       func() time.Time
}

func NewScheduleService(
	cr cycle.Repository,
	store notification.ScheduleStore,
	ds delivery.Service,
	lookup TextLookup,
	logger *logrus.Entry,
	now func() time.Time, // injectable clock; pass time.Now in production
) *ScheduleService {
	if now == nil {
		now = time.Now
	}
	return &ScheduleService{
		cycleRepo: cr,
		store:     store,
		delivery:  ds,
		lookup:    lookup,
		logger:    logger,
		now:       now,
	}
}

// Reschedule runs one full scheduling pass for the user. Re-running is
// always equivalent to a fresh run: the prior batch is cancelled and the
// stored schedule replaced wholesale. Partial success is acceptable and is
// not rolled back.
func (s *ScheduleService) Reschedule(ctx context.Context, u *user.User) ScheduleResult {
	logCtx := s.logger.WithFields(logrus.Fields{"user_id": u.ID, "telegram_id": u.TelegramID})
	var res ScheduleResult

	// Cancellation is best effort: a failure here must never block
	// scheduling the new batch.
	if err := s.delivery.CancelCategory(ctx, u.TelegramID, notification.Category); err != nil {
		logCtx.WithError(err).Warn("Failed to cancel prior cycle notifications; continuing")
	}

	history, err := s.cycleRepo.ListByUser(ctx, u.ID, historyLimit)
	if err != nil {
		logCtx.WithError(err).Error("Failed to load cycle history; run ends with nothing scheduled")
		res.Failures = append(res.Failures, fmt.Sprintf("load history: %v", err))
		return res
	}

	now := s.now()

	if len(history) == 0 {
		// No cycle data yet: the run ends with zero notifications,
		// weekly check included. The stored schedule is still replaced
		// so it cannot claim reminders the cancellation just removed.
		logCtx.Info("No cycle history; scheduling nothing")
		if err := s.store.Save(ctx, u.ID, []notification.CycleNotification{}); err != nil {
			logCtx.WithError(err).Error("Failed to persist empty schedule")
			res.Failures = append(res.Failures, fmt.Sprintf("persist: %v", err))
		}
		return res
	}

	candidates := notification.DeriveCandidates(
		now,
		cycle.PredictNextStart(history),
		cycle.OvulationDate(history),
		cycle.FertileWindow(history),
	)

	scheduled := make([]notification.CycleNotification, 0, len(candidates))
	for _, c := range candidates {
		fireAt, ok := notification.SafeFireTime(now, c.FireAt)
		if !ok {
			res.SkippedStale++
			continue
		}

		title, body := s.lookup(u.Language, c.Key)
		deliveryID, err := s.delivery.ScheduleOneTime(ctx, u.TelegramID, title, body, fireAt, notification.Category)
		if err != nil || deliveryID == "" {
			logCtx.WithError(err).WithField("message_key", c.Key).Error("Failed to schedule notification; continuing with remaining candidates")
			res.Failures = append(res.Failures, fmt.Sprintf("%s: %v", c.Key, err))
			continue
		}

		scheduled = append(scheduled, notification.CycleNotification{
			ID:             notification.RecordID(c.Key, now),
			Type:           c.Type,
			NotificationID: deliveryID,
			ScheduledDate:  fireAt,
		})
		res.Scheduled++
	}

	if err := s.store.Save(ctx, u.ID, scheduled); err != nil {
		logCtx.WithError(err).Error("Failed to persist notification schedule")
		res.Failures = append(res.Failures, fmt.Sprintf("persist: %v", err))
	}

	logCtx.WithFields(logrus.Fields{
		"scheduled": res.Scheduled,
		"skipped":   res.SkippedStale,
		"failed":    len(res.Failures),
	}).Info("Scheduling run complete")
	return res
}

// Scheduled returns the persisted schedule from the last run. A missing or
// corrupt record reads as an empty schedule.
func (s *ScheduleService) Scheduled(ctx context.Context, u *user.User) []notification.CycleNotification {
	return s.store.Load(ctx, u.ID)
}
