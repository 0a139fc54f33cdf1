package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	list := []CycleNotification{
		{
			ID:             "period_today-1710072000000",
			Type:           EventPeriodDue,
			NotificationID: "f5a1b1c2-0000-4000-8000-000000000001",
			ScheduledDate:  time.Date(2024, 3, 15, 9, 0, 0, 123_000_000, time.UTC),
		},
		{
			ID:             "weekly_check-1710072000000",
			Type:           EventWeeklyCheck,
			NotificationID: "f5a1b1c2-0000-4000-8000-000000000002",
			ScheduledDate:  time.Date(2024, 3, 17, 11, 0, 0, 0, time.UTC),
		},
	}

	data, err := EncodeList(list)
	require.NoError(t, err)

	got := DecodeList(data)
	require.Len(t, got, len(list))
	for i := range list {
		assert.Equal(t, list[i].ID, got[i].ID)
		assert.Equal(t, list[i].Type, got[i].Type)
		assert.Equal(t, list[i].NotificationID, got[i].NotificationID)
		assert.Equal(t, list[i].ScheduledDate.UnixMilli(), got[i].ScheduledDate.UnixMilli())
	}
}

func TestDecodeListToleratesBadInput(t *testing.T) {
	assert.Empty(t, DecodeList(nil))
	assert.Empty(t, DecodeList([]byte{}))
	assert.Empty(t, DecodeList([]byte("not json at all")))
	assert.Empty(t, DecodeList([]byte(`{"wrong":"shape"}`)))
	assert.Empty(t, DecodeList([]byte(`null`)))
}

func TestRecordID(t *testing.T) {
	createdAt := time.UnixMilli(1710072000000)
	assert.Equal(t, "ovulation-1710072000000", RecordID(KeyOvulation, createdAt))

	// Distinct keys at the same instant stay distinct.
	assert.NotEqual(t, RecordID(KeyPeriodToday, createdAt), RecordID(KeyPeriodTomorrow, createdAt))
}
