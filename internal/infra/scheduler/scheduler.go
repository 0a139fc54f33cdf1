package scheduler

import (
	"context"
	"time"

	"cycle_companion_bot/internal/app"
	"cycle_companion_bot/internal/domain/user"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RefreshScheduler re-runs the notification scheduling pass for every
// active user on a cron spec. Predictions drift as days pass without new
// data, and the in-memory dispatcher forgets pending notifications across
// restarts, so a periodic full refresh keeps delivered state honest.
type RefreshScheduler struct {
	cronEngine      *cron.Cron
	scheduleService *app.ScheduleService
	userRepo        user.Repository
	logger          *logrus.Entry
	cronSpecRefresh string
}

func NewRefreshScheduler(
	ss *app.ScheduleService,
	ur user.Repository,
	logger *logrus.Entry,
	cronSpecRefresh string, // e.g. "0 6 * * *" (06:00 daily)
) *RefreshScheduler {
	return &RefreshScheduler{
		cronEngine:      cron.New(cron.WithLocation(time.Local)),
		scheduleService: ss,
		userRepo:        ur,
		logger:          logger,
		cronSpecRefresh: cronSpecRefresh,
	}
}

func (s *RefreshScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpecRefresh, func() {
		s.logger.Info("Cron job triggered for daily schedule refresh")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		s.RefreshAll(ctx)
	})
	if err != nil {
		return err
	}
	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpecRefresh).Info("Refresh scheduler started")
	return nil
}

// RefreshAll runs one scheduling pass per active user. Individual runs
// never fail; a failure listing users aborts the sweep and is logged.
func (s *RefreshScheduler) RefreshAll(ctx context.Context) {
	users, err := s.userRepo.ListActive(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list active users for schedule refresh")
		return
	}

	var total int
	for _, u := range users {
		res := s.scheduleService.Reschedule(ctx, u)
		total += res.Scheduled
	}
	s.logger.WithFields(logrus.Fields{"users": len(users), "scheduled": total}).Info("Schedule refresh complete")
}

func (s *RefreshScheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.logger.Info("Refresh scheduler stopped")
}
