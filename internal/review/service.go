package review

//go:generate mockgen -source=service.go -destination=mock/mock_review.go -package=mock_review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/studyreview/internal/spaced_repetition"
	"github.com/example/studyreview/pkg/models"
)

// DefaultMaxAttempts bounds the retries of a review that lost an optimistic concurrency race
const DefaultMaxAttempts = 3

var (
	ErrInvalidQuality         = spaced_repetition.ErrInvalidQuality
	ErrItemNotFound           = models.ErrItemNotFound
	ErrConcurrentModification = models.ErrConcurrentModification
)

// ProgressStore persists learning progress.
// SaveProgress must fail with models.ErrConcurrentModification when the stored version differs from p.Version.
type ProgressStore interface {
	GetProgress(ctx context.Context, userID, itemID uuid.UUID) (*models.LearningProgress, error)
	SaveProgress(ctx context.Context, p *models.LearningProgress) error
	DueItems(ctx context.Context, filter models.DueFilter) ([]models.Item, error)
	Summary(ctx context.Context, userID uuid.UUID, now time.Time) (models.ProgressSummary, error)
}

// ItemResolver looks up reviewable items in the content service
type ItemResolver interface {
	ResolveItem(ctx context.Context, itemID uuid.UUID) (*models.Item, error)
}

// Service records review outcomes and selects due items
type Service struct {
	store       ProgressStore
	items       ItemResolver
	sm2         *spaced_repetition.SM2
	clock       Clock
	log         *zap.Logger
	maxAttempts int
}

// Option customizes a Service
type Option func(*Service)

// WithClock replaces the system clock
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithSM2 replaces the default SM-2 settings
func WithSM2(sm *spaced_repetition.SM2) Option {
	return func(s *Service) { s.sm2 = sm }
}

// WithMaxAttempts sets how many times a conflicting review is retried
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// NewService creates a review service
func NewService(store ProgressStore, items ItemResolver, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:       store,
		items:       items,
		sm2:         spaced_repetition.NewSM2(),
		clock:       SystemClock{},
		log:         log,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordReview records a review that happened now
func (s *Service) RecordReview(ctx context.Context, userID, itemID uuid.UUID, quality spaced_repetition.Quality) (*models.LearningProgress, error) {
	return s.RecordReviewAt(ctx, userID, itemID, quality, s.clock.Now())
}

// RecordReviewAt applies a review made at the given time and persists the updated progress.
// The progress record is created on the first review of an item by a user.
func (s *Service) RecordReviewAt(ctx context.Context, userID, itemID uuid.UUID, quality spaced_repetition.Quality, now time.Time) (*models.LearningProgress, error) {
	if !quality.Valid() {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}

	if _, err := s.items.ResolveItem(ctx, itemID); err != nil {
		return nil, fmt.Errorf("failed to resolve item %s: %w", itemID, err)
	}

	now = now.UTC()
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		current, err := s.store.GetProgress(ctx, userID, itemID)
		if err != nil {
			return nil, fmt.Errorf("failed to get learning progress: %w", err)
		}
		if current == nil {
			fresh := models.NewLearningProgress(userID, itemID)
			current = &fresh
		}

		updated, err := s.sm2.Process(*current, quality, now)
		if err != nil {
			return nil, err
		}

		err = s.store.SaveProgress(ctx, &updated)
		if err == nil {
			s.log.Debug("review recorded",
				zap.String("user_id", userID.String()),
				zap.String("item_id", itemID.String()),
				zap.Int("quality", int(quality)),
				zap.Int("interval", updated.Interval),
				zap.Float64("ease_factor", updated.Ease()),
			)
			return &updated, nil
		}
		if !errors.Is(err, ErrConcurrentModification) {
			return nil, fmt.Errorf("failed to save learning progress: %w", err)
		}

		s.log.Warn("learning progress changed concurrently, retrying",
			zap.String("user_id", userID.String()),
			zap.String("item_id", itemID.String()),
			zap.Int("attempt", attempt),
		)
	}

	return nil, fmt.Errorf("review of item %s gave up after %d attempts: %w", itemID, s.maxAttempts, ErrConcurrentModification)
}

// GetDueItems returns the previously reviewed items whose next review is due, earliest first.
// A nil collectionID selects items from every collection.
func (s *Service) GetDueItems(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]models.Item, error) {
	items, err := s.store.DueItems(ctx, models.DueFilter{
		UserID:       userID,
		Now:          s.clock.Now().UTC(),
		CollectionID: collectionID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get due items: %w", err)
	}
	return items, nil
}

// Summary returns the user's learning statistics as of now
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (models.ProgressSummary, error) {
	summary, err := s.store.Summary(ctx, userID, s.clock.Now().UTC())
	if err != nil {
		return models.ProgressSummary{}, fmt.Errorf("failed to get progress summary: %w", err)
	}
	return summary, nil
}
