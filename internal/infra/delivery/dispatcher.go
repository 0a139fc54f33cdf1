// internal/infra/delivery/dispatcher.go
package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainTelegram "cycle_companion_bot/internal/domain/telegram"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// pending is one notification waiting to fire.
type pending struct {
	chatID   int64
	title    string
	body     string
	fireAt   time.Time
	category string
}

// Dispatcher implements the delivery.Service interface: it holds pending
// one-time notifications in memory and flushes the due ones to Telegram on
// a cron tick. Pending state does not survive a restart; callers are
// expected to re-run scheduling at startup.
type Dispatcher struct {
	mu       sync.Mutex
	pending  map[string]pending
	cron     *cron.Cron
	client   domainTelegram.Client
	logger   *logrus.Entry
	tickSpec string
}

func NewDispatcher(client domainTelegram.Client, logger *logrus.Entry, tickSpec string) *Dispatcher {
	return &Dispatcher{
		pending:  make(map[string]pending),
		cron:     cron.New(cron.WithLocation(time.Local)),
		client:   client,
		logger:   logger,
		tickSpec: tickSpec, // e.g. "* * * * *" for a minute tick
	}
}

// Start registers the flush tick and starts the cron engine.
func (d *Dispatcher) Start() error {
	_, err := d.cron.AddFunc(d.tickSpec, d.flushDue)
	if err != nil {
		return fmt.Errorf("failed to add dispatch tick job: %w", err)
	}
	d.cron.Start()
	d.logger.WithField("tick_spec", d.tickSpec).Info("Notification dispatcher started")
	return nil
}

// Stop halts the cron engine and waits for a running tick to finish.
func (d *Dispatcher) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
	d.logger.Info("Notification dispatcher stopped")
}

// ScheduleOneTime registers a notification to fire at the given time and
// returns its identifier.
func (d *Dispatcher) ScheduleOneTime(_ context.Context, chatID int64, title, body string, fireAt time.Time, category string) (string, error) {
	if !fireAt.After(time.Now()) {
		return "", fmt.Errorf("refusing to schedule notification in the past (fire_at=%s)", fireAt.Format(time.RFC3339))
	}

	id := uuid.NewString()
	d.mu.Lock()
	d.pending[id] = pending{chatID: chatID, title: title, body: body, fireAt: fireAt, category: category}
	d.mu.Unlock()

	d.logger.WithFields(logrus.Fields{
		"notification_id": id,
		"chat_id":         chatID,
		"fire_at":         fireAt.Format(time.RFC3339),
		"category":        category,
	}).Debug("Notification scheduled")
	return id, nil
}

// CancelCategory drops every pending notification of the category for the
// chat. Cancelling when nothing is pending is a no-op.
func (d *Dispatcher) CancelCategory(_ context.Context, chatID int64, category string) error {
	d.mu.Lock()
	removed := 0
	for id, p := range d.pending {
		if p.chatID == chatID && p.category == category {
			delete(d.pending, id)
			removed++
		}
	}
	d.mu.Unlock()

	if removed > 0 {
		d.logger.WithFields(logrus.Fields{"chat_id": chatID, "category": category, "removed": removed}).Debug("Pending notifications cancelled")
	}
	return nil
}

// PendingCount reports how many notifications are waiting to fire.
func (d *Dispatcher) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// flushDue sends every notification whose fire time has arrived. Send
// failures are logged and the notification dropped; the scheduler layer
// treats delivery as fire-and-forget once placed.
func (d *Dispatcher) flushDue() {
	now := time.Now()

	d.mu.Lock()
	var due []pending
	for id, p := range d.pending {
		if !p.fireAt.After(now) {
			due = append(due, p)
			delete(d.pending, id)
		}
	}
	d.mu.Unlock()

	for _, p := range due {
		text := fmt.Sprintf("*%s*\n%s", p.title, p.body)
		if err := d.client.SendMarkdown(p.chatID, text); err != nil {
			d.logger.WithError(err).WithField("chat_id", p.chatID).Error("Failed to deliver due notification")
			continue
		}
		d.logger.WithFields(logrus.Fields{"chat_id": p.chatID, "category": p.category}).Info("Notification delivered")
	}
}
