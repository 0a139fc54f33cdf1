package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cycle_companion_bot/internal/app"
	"cycle_companion_bot/internal/infra/config"
	idb "cycle_companion_bot/internal/infra/database"
	infradelivery "cycle_companion_bot/internal/infra/delivery"
	"cycle_companion_bot/internal/infra/logger"
	"cycle_companion_bot/internal/infra/redisstore"
	"cycle_companion_bot/internal/infra/scheduler"
	"cycle_companion_bot/internal/infra/telegram"
	"cycle_companion_bot/internal/messages"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Could not load application configuration: %v", err)
	}

	logger.Init(cfg)
	mainLogger := logger.Log.WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":   cfg.LogLevel,
		"environment": cfg.Environment,
	}).Info("Cycle companion bot starting")

	// Database
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not connect to database")
	}
	defer db.Close()
	mainLogger.Info("Database connection established")

	userRepo := idb.NewPostgresUserRepository(db)
	cycleRepo := idb.NewPostgresCycleRepository(db)

	// Redis-backed schedule store
	store := redisstore.NewScheduleStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger.Log.WithField("component", "schedule_store"))
	defer store.Close()
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := store.Ping(pingCtx); err != nil {
		cancelPing()
		mainLogger.WithError(err).Fatal("Could not connect to redis")
	}
	cancelPing()
	mainLogger.Info("Redis connection established")

	// Telegram bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Log.WithField("component", "telebot").WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Unhandled bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	botClient := telegram.NewTelebotAdapter(bot)

	// Delivery dispatcher
	dispatcher := infradelivery.NewDispatcher(botClient, logger.Log.WithField("component", "dispatcher"), cfg.CronSpecDispatch)
	if err := dispatcher.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start notification dispatcher")
	}

	// Application services
	userService := app.NewUserService(userRepo, cycleRepo, logger.Log.WithField("component", "user_service"), nil)
	scheduleService := app.NewScheduleService(
		cycleRepo,
		store,
		dispatcher,
		messages.Lookup,
		logger.Log.WithField("component", "schedule_service"),
		nil,
	)

	// Daily refresh plus a startup pass: the dispatcher's pending state is
	// in-memory, so each boot rebuilds every user's schedule.
	refreshScheduler := scheduler.NewRefreshScheduler(scheduleService, userRepo, logger.Log.WithField("component", "refresh_scheduler"), cfg.CronSpecRefresh)
	if err := refreshScheduler.Start(); err != nil {
		mainLogger.WithError(err).Fatal("Could not start refresh scheduler")
	}
	refreshScheduler.RefreshAll(context.Background())

	// Handlers
	ctx := context.Background()
	telegram.RegisterBotCommands(ctx, bot, userService, scheduleService, userRepo, logger.Log.WithField("component", "handlers"))
	telegram.RegisterAdminHandlers(ctx, bot, userRepo, cfg.AdminTelegramID, logger.Log.WithField("component", "handlers"))
	mainLogger.Info("Command handlers registered")

	go bot.Start()
	mainLogger.Info("Application setup complete; bot is polling")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	mainLogger.Info("Shutting down application")
	bot.Stop()
	refreshScheduler.Stop()
	dispatcher.Stop()
	mainLogger.Info("Application shut down gracefully")
}
