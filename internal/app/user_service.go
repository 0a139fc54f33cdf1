package app

import (
	"context"
	"fmt"
	"time"

	"cycle_companion_bot/internal/domain/cycle"
	"cycle_companion_bot/internal/domain/user"
	idb "cycle_companion_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
)

// Custom application-level errors for the user service
var ErrUnknownLanguage = fmt.Errorf("unsupported language code")
var ErrPeriodInFuture = fmt.Errorf("period start date is in the future")
var ErrPeriodAlreadyLogged = fmt.Errorf("a period with this start date is already logged")
var ErrNoPeriodsLogged = fmt.Errorf("no periods logged yet")

// UserService handles registration, preferences and period logging.
type UserService struct {
	userRepo  user.Repository
	cycleRepo cycle.Repository
	logger    *logrus.Entry
	now       func() time.Time
}

func NewUserService(ur user.Repository, cr cycle.Repository, logger *logrus.Entry, now func() time.Time) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{userRepo: ur, cycleRepo: cr, logger: logger, now: now}
}

// RegisterOrActivate ensures a user record exists for the Telegram account
// and is active. Called from /start; registering twice is harmless.
func (s *UserService) RegisterOrActivate(ctx context.Context, telegramID int64, firstName string) (*user.User, error) {
	existing, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	if err == nil {
		if !existing.IsActive {
			existing.IsActive = true
			if err := s.userRepo.Update(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to reactivate user: %w", err)
			}
			s.logger.WithField("user_id", existing.ID).Info("User reactivated")
		}
		return existing, nil
	}
	if err != idb.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	newUser := &user.User{
		TelegramID: telegramID,
		FirstName:  firstName,
		Language:   user.LanguageEnglish,
		IsActive:   true,
	}
	if err := s.userRepo.Create(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.WithField("user_id", newUser.ID).Info("User registered")
	return newUser, nil
}

// SetLanguage updates the user's reminder language.
func (s *UserService) SetLanguage(ctx context.Context, u *user.User, lang user.Language) error {
	if !lang.Known() {
		return ErrUnknownLanguage
	}
	u.Language = lang
	if err := s.userRepo.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update language: %w", err)
	}
	return nil
}

// LogPeriodStart records a new period beginning on startDate. The date must
// not be in the future and must not duplicate the latest logged start.
func (s *UserService) LogPeriodStart(ctx context.Context, u *user.User, startDate time.Time) error {
	today := dateOnly(s.now())
	startDate = dateOnly(startDate)
	if startDate.After(today) {
		return ErrPeriodInFuture
	}

	latest, err := s.cycleRepo.ListByUser(ctx, u.ID, 1)
	if err != nil {
		return fmt.Errorf("failed to check latest entry: %w", err)
	}
	if len(latest) > 0 && dateOnly(latest[0].StartDate).Equal(startDate) {
		return ErrPeriodAlreadyLogged
	}

	entry := &cycle.Entry{UserID: u.ID, StartDate: startDate}
	if err := s.cycleRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("failed to create cycle entry: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "start_date": startDate.Format("2006-01-02")}).Info("Period logged")
	return nil
}

// LogPeriodEnd marks the latest open period as ended on endDate.
func (s *UserService) LogPeriodEnd(ctx context.Context, u *user.User, endDate time.Time) error {
	today := dateOnly(s.now())
	endDate = dateOnly(endDate)
	if endDate.After(today) {
		return ErrPeriodInFuture
	}

	err := s.cycleRepo.SetEndDate(ctx, u.ID, endDate)
	if err == idb.ErrEntryNotFound {
		return ErrNoPeriodsLogged
	}
	if err != nil {
		return fmt.Errorf("failed to set end date: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"user_id": u.ID, "end_date": endDate.Format("2006-01-02")}).Info("Period end logged")
	return nil
}

// UndoLastPeriod deletes the user's most recently logged period.
func (s *UserService) UndoLastPeriod(ctx context.Context, u *user.User) error {
	err := s.cycleRepo.DeleteLatest(ctx, u.ID)
	if err == idb.ErrEntryNotFound {
		return ErrNoPeriodsLogged
	}
	if err != nil {
		return fmt.Errorf("failed to delete latest entry: %w", err)
	}
	s.logger.WithField("user_id", u.ID).Info("Latest period entry removed")
	return nil
}

// History returns the user's recent cycle entries, newest first.
func (s *UserService) History(ctx context.Context, u *user.User, limit int) ([]*cycle.Entry, error) {
	return s.cycleRepo.ListByUser(ctx, u.ID, limit)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
