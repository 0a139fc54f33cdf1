// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cycle_companion_bot/internal/app"
	"cycle_companion_bot/internal/domain/cycle"
	"cycle_companion_bot/internal/domain/user"
	idb "cycle_companion_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const dateLayout = "2006-01-02"

// RegisterBotCommands wires the user-facing commands.
func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	userService *app.UserService,
	scheduleService *app.ScheduleService,
	userRepo user.Repository,
	baseLogger *logrus.Entry,
) {
	cmdLogger := baseLogger.WithField("handler_group", "commands")

	// resolveUser loads the active user for the sender, replying with a
	// hint when they haven't registered yet.
	resolveUser := func(c telebot.Context, logCtx *logrus.Entry) (*user.User, error) {
		u, err := userRepo.GetByTelegramID(ctx, c.Sender().ID)
		if err == idb.ErrUserNotFound {
			return nil, c.Send("I don't know you yet. Send /start first.")
		}
		if err != nil {
			logCtx.WithError(err).Error("Failed to load user")
			return nil, c.Send("Something went wrong. Please try again later.")
		}
		if !u.IsActive {
			return nil, c.Send("Your account is inactive. Send /start to reactivate it.")
		}
		return u, nil
	}

	b.Handle("/start", func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/start").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing command")

		u, err := userService.RegisterOrActivate(ctx, c.Sender().ID, c.Sender().FirstName)
		if err != nil {
			logCtx.WithError(err).Error("Registration failed")
			return c.Send("Something went wrong during registration. Please try again later.")
		}

		return c.Send(fmt.Sprintf(
			"Hi %s! I track your cycle and remind you about upcoming events.\n\n"+
				"Log your period with /period, see predictions with /cycle, and use /help for everything else.",
			u.FirstName))
	})

	b.Handle("/help", func(c telebot.Context) error {
		var help strings.Builder
		help.WriteString("Available commands:\n\n")
		help.WriteString("`/period [YYYY-MM-DD]`\n - Log a period start (defaults to today).\n\n")
		help.WriteString("`/period_end [YYYY-MM-DD]`\n - Mark the current period as ended (defaults to today).\n\n")
		help.WriteString("`/undo`\n - Remove the most recently logged period.\n\n")
		help.WriteString("`/cycle`\n - Show your predicted next period, fertile window and ovulation.\n\n")
		help.WriteString("`/reminders`\n - Show the reminders currently scheduled for you.\n\n")
		help.WriteString("`/language <de|en|pl>`\n - Change the reminder language.\n\n")
		help.WriteString("`/help`\n - Show this message.")
		return c.Send(help.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/period", func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/period").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing command")

		u, err := resolveUser(c, logCtx)
		if u == nil {
			return err
		}

		startDate := time.Now()
		if args := c.Args(); len(args) > 0 {
			startDate, err = time.ParseInLocation(dateLayout, args[0], time.Local)
			if err != nil {
				return c.Send("I couldn't read that date. Please use the format YYYY-MM-DD, e.g. /period 2026-08-01.")
			}
		}

		switch err := userService.LogPeriodStart(ctx, u, startDate); err {
		case nil:
			// fall through to rescheduling
		case app.ErrPeriodInFuture:
			return c.Send("That date is in the future. Please log a period that has already started.")
		case app.ErrPeriodAlreadyLogged:
			return c.Send("You already logged a period starting on that date.")
		default:
			logCtx.WithError(err).Error("Failed to log period")
			return c.Send("Something went wrong while saving. Please try again later.")
		}

		// Cycle data changed, so the reminder schedule is rebuilt now.
		res := scheduleService.Reschedule(ctx, u)
		logCtx.WithField("scheduled", res.Scheduled).Info("Period logged and reminders rescheduled")

		return c.Send(fmt.Sprintf("Period logged for %s. I've set up %d reminders for your upcoming cycle events.",
			startDate.Format(dateLayout), res.Scheduled))
	})

	b.Handle("/period_end", func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/period_end").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing command")

		u, err := resolveUser(c, logCtx)
		if u == nil {
			return err
		}

		endDate := time.Now()
		if args := c.Args(); len(args) > 0 {
			endDate, err = time.ParseInLocation(dateLayout, args[0], time.Local)
			if err != nil {
				return c.Send("I couldn't read that date. Please use the format YYYY-MM-DD.")
			}
		}

		switch err := userService.LogPeriodEnd(ctx, u, endDate); err {
		case nil:
			return c.Send(fmt.Sprintf("Noted, period ended on %s.", endDate.Format(dateLayout)))
		case app.ErrPeriodInFuture:
			return c.Send("That date is in the future.")
		case app.ErrNoPeriodsLogged:
			return c.Send("There's no open period to close. Log one with /period first.")
		default:
			logCtx.WithError(err).Error("Failed to log period end")
			return c.Send("Something went wrong. Please try again later.")
		}
	})

	b.Handle("/undo", func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/undo").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing command")

		u, err := resolveUser(c, logCtx)
		if u == nil {
			return err
		}

		switch err := userService.UndoLastPeriod(ctx, u); err {
		case nil:
		case app.ErrNoPeriodsLogged:
			return c.Send("There's nothing to undo yet.")
		default:
			logCtx.WithError(err).Error("Failed to undo period")
			return c.Send("Something went wrong. Please try again later.")
		}

		scheduleService.Reschedule(ctx, u)
		return c.Send("Removed your latest period entry and updated your reminders.")
	})

	b.Handle("/cycle", func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/cycle").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing command")

		u, err := resolveUser(c, logCtx)
		if u == nil {
			return err
		}

		history, err := userService.History(ctx, u, 12)
		if err != nil {
			logCtx.WithError(err).Error("Failed to load history")
			return c.Send("Something went wrong. Please try again later.")
		}
		if len(history) == 0 {
			return c.Send("No cycle data yet. Log your period with /period and I'll start predicting.")
		}

		var msg strings.Builder
		msg.WriteString(fmt.Sprintf("Average cycle length: %d days\n", cycle.AverageLength(history)))
		if next := cycle.PredictNextStart(history); next != nil {
			msg.WriteString(fmt.Sprintf("Next period: %s\n", next.Format(dateLayout)))
		}
		if w := cycle.FertileWindow(history); w != nil {
			msg.WriteString(fmt.Sprintf("Fertile window: %s – %s\n", w.Start.Format(dateLayout), w.End.Format(dateLayout)))
		}
		if ov := cycle.OvulationDate(history); ov != nil {
			msg.WriteString(fmt.Sprintf("Ovulation: %s", ov.Format(dateLayout)))
		}
		return c.Send(msg.String())
	})

	b.Handle("/reminders", func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/reminders").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing command")

		u, err := resolveUser(c, logCtx)
		if u == nil {
			return err
		}

		scheduled := scheduleService.Scheduled(ctx, u)
		if len(scheduled) == 0 {
			return c.Send("No reminders scheduled. Log a period with /period to get some.")
		}

		var msg strings.Builder
		msg.WriteString("Scheduled reminders:\n")
		for _, n := range scheduled {
			msg.WriteString(fmt.Sprintf("• %s — %s\n", n.ScheduledDate.Format("2006-01-02 15:04"), n.Type))
		}
		return c.Send(msg.String())
	})

	b.Handle("/language", func(c telebot.Context) error {
		logCtx := cmdLogger.WithField("command", "/language").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing command")

		u, err := resolveUser(c, logCtx)
		if u == nil {
			return err
		}

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Usage: /language <de|en|pl>")
		}

		lang := user.Language(strings.ToLower(args[0]))
		switch err := userService.SetLanguage(ctx, u, lang); err {
		case nil:
		case app.ErrUnknownLanguage:
			return c.Send("I speak de, en and pl. Usage: /language <de|en|pl>")
		default:
			logCtx.WithError(err).Error("Failed to set language")
			return c.Send("Something went wrong. Please try again later.")
		}

		// Reminder texts are baked in at scheduling time, so rebuild them
		// in the new language.
		scheduleService.Reschedule(ctx, u)
		return c.Send("Language updated.")
	})
}
