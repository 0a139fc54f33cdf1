package app

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"cycle_companion_bot/internal/domain/cycle"
	"cycle_companion_bot/internal/domain/notification"
	"cycle_companion_bot/internal/domain/user"
	"cycle_companion_bot/internal/messages"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeCycleRepo struct {
	entries   []*cycle.Entry
	listErr   error
	deleteErr error
}

func (f *fakeCycleRepo) Create(_ context.Context, e *cycle.Entry) error {
	e.ID = int64(len(f.entries) + 1)
	f.entries = append([]*cycle.Entry{e}, f.entries...)
	return nil
}

func (f *fakeCycleRepo) DeleteLatest(context.Context, int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if len(f.entries) == 0 {
		return nil
	}
	f.entries = f.entries[1:]
	return nil
}

func (f *fakeCycleRepo) SetEndDate(context.Context, int64, time.Time) error { return nil }

func (f *fakeCycleRepo) ListByUser(_ context.Context, _ int64, limit int) ([]*cycle.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.entries) > limit {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

type fakeStore struct {
	saved   map[int64][]notification.CycleNotification
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[int64][]notification.CycleNotification)}
}

func (f *fakeStore) Save(_ context.Context, userID int64, list []notification.CycleNotification) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved[userID] = list
	return nil
}

func (f *fakeStore) Load(_ context.Context, userID int64) []notification.CycleNotification {
	list, ok := f.saved[userID]
	if !ok {
		return []notification.CycleNotification{}
	}
	return list
}

type scheduledCall struct {
	chatID   int64
	title    string
	fireAt   time.Time
	category string
}

type fakeDelivery struct {
	cancelCalls      int
	schedCalls       []scheduledCall
	cancelErr        error
	failTitles       map[string]bool // titles whose scheduling errors out
	emptyIDTitles    map[string]bool // titles that get an empty id back
	nextID           int
	cancelAfterSched bool // set if Cancel is ever called after a Schedule
}

func (f *fakeDelivery) ScheduleOneTime(_ context.Context, chatID int64, title, _ string, fireAt time.Time, category string) (string, error) {
	f.schedCalls = append(f.schedCalls, scheduledCall{chatID: chatID, title: title, fireAt: fireAt, category: category})
	if f.failTitles[title] {
		return "", fmt.Errorf("delivery unavailable")
	}
	if f.emptyIDTitles[title] {
		return "", nil
	}
	f.nextID++
	return fmt.Sprintf("delivery-%d", f.nextID), nil
}

func (f *fakeDelivery) CancelCategory(context.Context, int64, string) error {
	if len(f.schedCalls) > 0 {
		f.cancelAfterSched = true
	}
	f.cancelCalls++
	return f.cancelErr
}

// --- helpers ---

var testUser = &user.User{ID: 7, TelegramID: 4242, FirstName: "Ada", Language: user.LanguageEnglish, IsActive: true}

// fixedNow is a Sunday at noon.
var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newService(repo *fakeCycleRepo, store *fakeStore, del *fakeDelivery) *ScheduleService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewScheduleService(repo, store, del, messages.Lookup, log.WithField("test", true),
		func() time.Time { return fixedNow })
}

// historyEndingAt builds a single-entry history whose predicted next start
// is 28 days after the given start date.
func historyEndingAt(start time.Time) []*cycle.Entry {
	return []*cycle.Entry{{ID: 1, UserID: testUser.ID, StartDate: start}}
}

// --- tests ---

func TestRescheduleEmptyHistory(t *testing.T) {
	repo := &fakeCycleRepo{}
	store := newFakeStore()
	del := &fakeDelivery{}
	svc := newService(repo, store, del)

	res := svc.Reschedule(context.Background(), testUser)

	assert.Equal(t, 0, res.Scheduled)
	assert.Empty(t, res.Failures)
	assert.Equal(t, 1, del.cancelCalls, "cancellation runs exactly once even when nothing is scheduled")
	assert.Empty(t, del.schedCalls)
	assert.Empty(t, store.Load(context.Background(), testUser.ID))
}

func TestRescheduleHappyPath(t *testing.T) {
	// Last period 2024-02-25 predicts the next start on 2024-03-24:
	// period reminders and the weekly check are future, while ovulation
	// (03-10, today) and the fertile window (03-05..03-11 at 09:00) have
	// already partly passed relative to noon on 03-10.
	repo := &fakeCycleRepo{entries: historyEndingAt(time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC))}
	store := newFakeStore()
	del := &fakeDelivery{}
	svc := newService(repo, store, del)

	res := svc.Reschedule(context.Background(), testUser)

	assert.Equal(t, 1, del.cancelCalls)
	assert.False(t, del.cancelAfterSched, "cancellation must precede all scheduling calls")

	// period today, period tomorrow, fertile end (03-11 18:00), weekly.
	assert.Equal(t, 4, res.Scheduled)
	// fertile start 03-05 09:00 and ovulation 03-10 10:00 are stale.
	assert.Equal(t, 2, res.SkippedStale)
	assert.Empty(t, res.Failures)

	persisted := store.Load(context.Background(), testUser.ID)
	require.Len(t, persisted, 4)
	for _, n := range persisted {
		assert.True(t, n.ScheduledDate.After(fixedNow), "persisted %s fires at %s, not after now", n.Type, n.ScheduledDate)
		assert.NotEmpty(t, n.NotificationID)
		assert.NotEmpty(t, n.ID)
	}

	types := make(map[notification.EventType]int)
	for _, n := range persisted {
		types[n.Type]++
	}
	assert.Equal(t, 2, types[notification.EventPeriodDue])
	assert.Equal(t, 1, types[notification.EventFertileWindowEnd])
	assert.Equal(t, 1, types[notification.EventWeeklyCheck])

	// Weekly check: next Sunday strictly after today, 11:00.
	var weekly notification.CycleNotification
	for _, n := range persisted {
		if n.Type == notification.EventWeeklyCheck {
			weekly = n
		}
	}
	assert.Equal(t, time.Date(2024, 3, 17, 11, 0, 0, 0, time.UTC), weekly.ScheduledDate)

	for _, call := range del.schedCalls {
		assert.Equal(t, testUser.TelegramID, call.chatID)
		assert.Equal(t, notification.Category, call.category)
	}
}

func TestRescheduleSingleDeliveryFailureIsIsolated(t *testing.T) {
	repo := &fakeCycleRepo{entries: historyEndingAt(time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC))}
	store := newFakeStore()
	del := &fakeDelivery{failTitles: map[string]bool{"Period expected today": true}}
	svc := newService(repo, store, del)

	res := svc.Reschedule(context.Background(), testUser)

	assert.Equal(t, 3, res.Scheduled)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0], string(notification.KeyPeriodToday))

	// The failed reminder is absent from the persisted schedule.
	for _, n := range store.Load(context.Background(), testUser.ID) {
		assert.False(t, strings.HasPrefix(n.ID, string(notification.KeyPeriodToday)))
	}
}

func TestRescheduleEmptyDeliveryIDIsOmitted(t *testing.T) {
	repo := &fakeCycleRepo{entries: historyEndingAt(time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC))}
	store := newFakeStore()
	del := &fakeDelivery{emptyIDTitles: map[string]bool{"Weekly check-in": true}}
	svc := newService(repo, store, del)

	res := svc.Reschedule(context.Background(), testUser)

	assert.Equal(t, 3, res.Scheduled)
	assert.Len(t, res.Failures, 1)
	for _, n := range store.Load(context.Background(), testUser.ID) {
		assert.NotEqual(t, notification.EventWeeklyCheck, n.Type)
	}
}

func TestRescheduleCancelFailureDoesNotAbort(t *testing.T) {
	repo := &fakeCycleRepo{entries: historyEndingAt(time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC))}
	store := newFakeStore()
	del := &fakeDelivery{cancelErr: fmt.Errorf("delivery layer down")}
	svc := newService(repo, store, del)

	res := svc.Reschedule(context.Background(), testUser)

	assert.Equal(t, 4, res.Scheduled)
	assert.Empty(t, res.Failures)
}

func TestRescheduleHistoryLoadFailure(t *testing.T) {
	repo := &fakeCycleRepo{listErr: fmt.Errorf("connection reset")}
	store := newFakeStore()
	del := &fakeDelivery{}
	svc := newService(repo, store, del)

	res := svc.Reschedule(context.Background(), testUser)

	assert.Equal(t, 1, del.cancelCalls)
	assert.Equal(t, 0, res.Scheduled)
	require.Len(t, res.Failures, 1)
	assert.Contains(t, res.Failures[0], "load history")
}

func TestReschedulePersistFailureIsReported(t *testing.T) {
	repo := &fakeCycleRepo{entries: historyEndingAt(time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC))}
	store := newFakeStore()
	store.saveErr = fmt.Errorf("redis down")
	del := &fakeDelivery{}
	svc := newService(repo, store, del)

	res := svc.Reschedule(context.Background(), testUser)

	assert.Equal(t, 4, res.Scheduled)
	require.NotEmpty(t, res.Failures)
	assert.Contains(t, res.Failures[len(res.Failures)-1], "persist")
}

func TestScheduledReadsStore(t *testing.T) {
	repo := &fakeCycleRepo{entries: historyEndingAt(time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC))}
	store := newFakeStore()
	del := &fakeDelivery{}
	svc := newService(repo, store, del)

	assert.Empty(t, svc.Scheduled(context.Background(), testUser), "unknown user reads as empty schedule")

	svc.Reschedule(context.Background(), testUser)
	assert.Len(t, svc.Scheduled(context.Background(), testUser), 4)
}
