package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/studyreview/internal/review"
	"github.com/example/studyreview/pkg/models"
)

// Default notification settings
const (
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
	DefaultCheckInterval         = time.Hour
)

// Notifier delivers due-review reminders
type Notifier interface {
	NotifyDue(ctx context.Context, userID uuid.UUID, summary models.ProgressSummary) error
}

// DueSource finds users with due reviews
type DueSource interface {
	UsersWithDueItems(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	Summary(ctx context.Context, userID uuid.UUID, now time.Time) (models.ProgressSummary, error)
}

// Config controls when reminders go out. Hours are in the clock's time zone;
// a start hour after the end hour wraps around midnight.
type Config struct {
	Every     time.Duration
	StartHour int
	EndHour   int
}

// DefaultConfig returns the default reminder configuration
func DefaultConfig() Config {
	return Config{
		Every:     DefaultCheckInterval,
		StartHour: DefaultNotificationStartHour,
		EndHour:   DefaultNotificationEndHour,
	}
}

// Scheduler manages the periodic reminder job
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    DueSource
	notifier  Notifier
	clock     review.Clock
	cfg       Config
	log       *zap.Logger
	ctx       context.Context
}

// New creates a new scheduler instance
func New(source DueSource, notifier Notifier, cfg Config, clock review.Clock, log *zap.Logger) *Scheduler {
	if cfg.Every <= 0 {
		cfg.Every = DefaultCheckInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		notifier:  notifier,
		clock:     clock,
		cfg:       cfg,
		log:       log,
		ctx:       context.Background(),
	}
}

// Start begins running the reminder job; ctx bounds every run
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx = ctx
	_, err := s.scheduler.Every(s.cfg.Every).Do(s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}

	// Start the scheduler in a non-blocking manner
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) run() {
	if _, err := s.CheckAndSendReminders(s.ctx); err != nil {
		s.log.Error("reminder run failed", zap.Error(err))
	}
}

// CheckAndSendReminders notifies every user with due items, if the current hour allows it.
// It returns the number of users notified.
func (s *Scheduler) CheckAndSendReminders(ctx context.Context) (int, error) {
	now := s.clock.Now()
	if !s.inWindow(now.Hour()) {
		s.log.Debug("outside notification hours, skipping reminders",
			zap.Int("hour", now.Hour()),
			zap.Int("start_hour", s.cfg.StartHour),
			zap.Int("end_hour", s.cfg.EndHour),
		)
		return 0, nil
	}

	users, err := s.source.UsersWithDueItems(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to get users for reminders: %w", err)
	}

	sent := 0
	for _, userID := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		ok, err := s.notify(ctx, userID, now)
		if err != nil {
			s.log.Error("failed to send reminder", zap.String("user_id", userID.String()), zap.Error(err))
			continue
		}
		if ok {
			sent++
		}
	}

	s.log.Info("reminders sent", zap.Int("users", len(users)), zap.Int("sent", sent))
	return sent, nil
}

// RunManualCheck reminds a single user regardless of the notification hours
func (s *Scheduler) RunManualCheck(ctx context.Context, userID uuid.UUID) error {
	_, err := s.notify(ctx, userID, s.clock.Now())
	return err
}

func (s *Scheduler) notify(ctx context.Context, userID uuid.UUID, now time.Time) (bool, error) {
	summary, err := s.source.Summary(ctx, userID, now)
	if err != nil {
		return false, err
	}
	if summary.Due == 0 {
		return false, nil
	}
	if err := s.notifier.NotifyDue(ctx, userID, summary); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Scheduler) inWindow(hour int) bool {
	if s.cfg.StartHour <= s.cfg.EndHour {
		return hour >= s.cfg.StartHour && hour <= s.cfg.EndHour
	}
	return hour >= s.cfg.StartHour || hour <= s.cfg.EndHour
}
