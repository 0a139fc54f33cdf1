package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSafeFireTime(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		candidate time.Time
		want      time.Time
		schedule  bool
	}{
		{
			name:      "candidate in the past is dropped",
			candidate: now.Add(-time.Hour),
			schedule:  false,
		},
		{
			name:      "candidate exactly now is dropped",
			candidate: now,
			schedule:  false,
		},
		{
			name:      "candidate one millisecond ahead is shifted by two minutes",
			candidate: now.Add(time.Millisecond),
			want:      now.Add(time.Millisecond + 2*time.Minute),
			schedule:  true,
		},
		{
			name:      "candidate just under twenty seconds ahead is shifted by two minutes",
			candidate: now.Add(20*time.Second - time.Millisecond),
			want:      now.Add(20*time.Second - time.Millisecond + 2*time.Minute),
			schedule:  true,
		},
		{
			name:      "candidate exactly twenty seconds ahead passes through",
			candidate: now.Add(20 * time.Second),
			want:      now.Add(20 * time.Second),
			schedule:  true,
		},
		{
			name:      "candidate far in the future passes through unchanged",
			candidate: now.AddDate(0, 0, 5),
			want:      now.AddDate(0, 0, 5),
			schedule:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SafeFireTime(now, tt.candidate)
			assert.Equal(t, tt.schedule, ok)
			if tt.schedule {
				assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
				assert.True(t, got.After(now), "safe fire time must be strictly in the future")
			}
		})
	}
}

func TestSafeFireTimeShiftIsExactlyTwoMinutes(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	for _, ahead := range []time.Duration{time.Nanosecond, time.Second, 10 * time.Second, 19 * time.Second} {
		candidate := now.Add(ahead)
		got, ok := SafeFireTime(now, candidate)
		assert.True(t, ok)
		assert.Equal(t, 120000*time.Millisecond, got.Sub(candidate))
	}
}
