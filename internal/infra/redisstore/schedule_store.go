// internal/infra/redisstore/schedule_store.go
package redisstore

import (
	"context"
	"fmt"

	"cycle_companion_bot/internal/domain/notification"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "cyclebot:notifications:"

// ScheduleStore persists per-user notification schedules as a single JSON
// array under a fixed key per user.
type ScheduleStore struct {
	client *redis.Client
	logger *logrus.Entry
}

func NewScheduleStore(addr, password string, db int, logger *logrus.Entry) *ScheduleStore {
	return &ScheduleStore{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		logger: logger,
	}
}

// Ping verifies connectivity at startup.
func (s *ScheduleStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (s *ScheduleStore) Close() error {
	return s.client.Close()
}

// Save replaces the user's stored schedule wholesale.
func (s *ScheduleStore) Save(ctx context.Context, userID int64, list []notification.CycleNotification) error {
	data, err := notification.EncodeList(list)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, key(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("error storing notification schedule: %w", err)
	}
	return nil
}

// Load returns the user's stored schedule. A missing key, a read error or a
// corrupt payload all read as an empty schedule; the next run rebuilds it.
func (s *ScheduleStore) Load(ctx context.Context, userID int64) []notification.CycleNotification {
	data, err := s.client.Get(ctx, key(userID)).Bytes()
	if err == redis.Nil {
		return []notification.CycleNotification{}
	}
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("Failed to read stored schedule; treating as empty")
		return []notification.CycleNotification{}
	}
	return notification.DecodeList(data)
}

func key(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}
