// internal/domain/notification/notification.go
package notification

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType classifies a scheduled cycle reminder.
type EventType string

const (
	EventPeriodDue          EventType = "PERIOD_DUE"
	EventFertileWindowStart EventType = "FERTILE_WINDOW_START"
	EventFertileWindowEnd   EventType = "FERTILE_WINDOW_END"
	EventOvulation          EventType = "OVULATION"
	EventWeeklyCheck        EventType = "WEEKLY_CHECK"
)

// MessageKey identifies the localized title/body pair for a reminder. Two
// reminders can share an EventType (period today / period tomorrow) while
// carrying different texts, so the key is tracked separately.
type MessageKey string

const (
	KeyPeriodToday    MessageKey = "period_today"
	KeyPeriodTomorrow MessageKey = "period_tomorrow"
	KeyFertileStart   MessageKey = "fertile_start"
	KeyFertileEnd     MessageKey = "fertile_end"
	KeyOvulation      MessageKey = "ovulation"
	KeyWeeklyCheck    MessageKey = "weekly_check"
)

// Category tags every cycle reminder handed to the delivery service, so a
// later run can cancel the whole batch without touching unrelated
// notifications.
const Category = "cycle"

// CycleNotification is one scheduled reminder, as persisted after a
// scheduling run. ScheduledDate is strictly in the future at the time the
// run created the record.
type CycleNotification struct {
	ID             string    `json:"id"`
	Type           EventType `json:"type"`
	NotificationID string    `json:"notificationId"`
	ScheduledDate  time.Time `json:"scheduledDate"`
}

// RecordID builds the identifier for a notification created at the given
// instant. Keys are unique within a run, so key plus instant is unique
// across runs.
func RecordID(key MessageKey, createdAt time.Time) string {
	return fmt.Sprintf("%s-%d", key, createdAt.UnixMilli())
}

// EncodeList serializes a schedule for storage. Timestamps travel as
// ISO-8601 strings (the encoding/json default for time.Time).
func EncodeList(list []CycleNotification) ([]byte, error) {
	data, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("error encoding notification list: %w", err)
	}
	return data, nil
}

// DecodeList revives a stored schedule. A corrupt payload yields an empty
// list rather than an error: the schedule is a cache of intent, and the
// next scheduling run rebuilds it wholesale.
func DecodeList(data []byte) []CycleNotification {
	if len(data) == 0 {
		return []CycleNotification{}
	}
	var list []CycleNotification
	if err := json.Unmarshal(data, &list); err != nil {
		return []CycleNotification{}
	}
	if list == nil {
		return []CycleNotification{}
	}
	return list
}
