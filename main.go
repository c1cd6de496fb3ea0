package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/example/studyreview/internal/bot"
	"github.com/example/studyreview/internal/config"
	"github.com/example/studyreview/internal/database"
	"github.com/example/studyreview/internal/excel"
	"github.com/example/studyreview/internal/notify"
	"github.com/example/studyreview/internal/review"
	"github.com/example/studyreview/internal/scheduler"
	"github.com/example/studyreview/internal/spaced_repetition"
)

func setupLogger(env string) *zap.Logger {
	var logger *zap.Logger
	if env == "development" {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger
}

func main() {
	configDir := flag.String("config", "configs", "directory holding studyreview.yaml")
	importPath := flag.String("import", "", "replay a review history file (.xlsx or .csv) and exit")
	sheet := flag.String("sheet", "Sheet1", "sheet to read when importing Excel files")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatal("failed load config " + err.Error())
	}

	logger := setupLogger(cfg.Env)
	defer logger.Sync()

	db, err := database.Connect(database.Config{
		Driver:          cfg.DB.Driver,
		DSN:             cfg.DB.DSN,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		logger.Fatal("failed init db", zap.Error(err))
	}
	defer db.Close()

	progress := database.NewProgressRepository(db)
	items := database.NewItemRepository(db)
	chats := database.NewChatRepository(db)

	service := review.NewService(progress, items, logger,
		review.WithSM2(&spaced_repetition.SM2{MaxInterval: cfg.Review.MaxInterval}),
		review.WithMaxAttempts(cfg.Review.MaxAttempts),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *importPath != "" {
		importConfig := excel.DefaultImportConfig()
		importConfig.FilePath = *importPath
		importConfig.SheetName = *sheet

		result, err := excel.ImportReviews(ctx, service, importConfig)
		if err != nil {
			logger.Fatal("import failed", zap.Error(err))
		}
		for _, msg := range result.Errors {
			logger.Warn("import row skipped", zap.String("reason", msg))
		}
		logger.Info("import finished",
			zap.Int("processed", result.TotalProcessed),
			zap.Int("recorded", result.Recorded),
			zap.Int("skipped", result.Skipped),
		)
		return
	}

	var notifier scheduler.Notifier = notify.NewLog(logger)
	if cfg.Telegram.BotToken != "" {
		api, err := bot.Connect(cfg.Telegram.BotToken, cfg.Telegram.Debug, logger)
		if err != nil {
			logger.Fatal("failed init telegram", zap.Error(err))
		}
		notifier = notify.NewTelegram(api, chats, logger)

		go bot.New(api, service, chats, bot.DefaultConfig(), logger).Run(ctx)
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN is not set, reminders are only logged")
	}

	reminders := scheduler.New(progress, notifier, scheduler.Config{
		Every:     cfg.Reminder.Every,
		StartHour: cfg.Reminder.StartHour,
		EndHour:   cfg.Reminder.EndHour,
	}, review.SystemClock{}, logger)

	if err := reminders.Start(ctx); err != nil {
		logger.Fatal("failed start reminders", zap.Error(err))
	}

	logger.Info("review scheduler started, press Ctrl+C to stop")
	<-ctx.Done()

	reminders.Stop()
	logger.Info("review scheduler stopped")
}
