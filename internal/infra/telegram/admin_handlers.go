package telegram

import (
	"context"
	"fmt"
	"strings"

	"cycle_companion_bot/internal/domain/user"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterAdminHandlers registers the operator-only commands.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, userRepo user.Repository, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/users", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/users",
			"sender_id": c.Sender().ID,
		})

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("You are not authorized to use this command.")
		}

		users, err := userRepo.ListActive(ctx)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list active users")
			return c.Send("Failed to load the user list.")
		}
		if len(users) == 0 {
			return c.Send("No active users.")
		}

		var msg strings.Builder
		msg.WriteString(fmt.Sprintf("Active users (%d):\n", len(users)))
		for _, u := range users {
			msg.WriteString(fmt.Sprintf("• %s (id=%d, tg=%d, lang=%s)\n", u.FirstName, u.ID, u.TelegramID, u.Language))
		}
		return c.Send(msg.String())
	})
}
