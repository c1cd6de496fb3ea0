package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultEaseFactor is the ease factor assumed for an item that has never been reviewed
const DefaultEaseFactor = 2.5

// LearningProgress tracks a user's progress with a single item using the SM-2 algorithm
type LearningProgress struct {
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`
	ItemID       uuid.UUID  `json:"item_id" db:"item_id"`
	Repetitions  int        `json:"repetitions" db:"repetitions"`     // Consecutive successful reviews
	Interval     int        `json:"interval" db:"interval_days"`      // Current interval in days
	EaseFactor   *float64   `json:"ease_factor" db:"ease_factor"`     // nil until the first review
	LastQuality  *int       `json:"last_quality" db:"last_quality"`   // 0-5 rating of last recall
	LastReviewed *time.Time `json:"last_reviewed" db:"last_reviewed"` // nil until the first review
	NextReview   *time.Time `json:"next_review" db:"next_review"`     // nil until the first review
	Version      int64      `json:"version" db:"version"`             // 0 until persisted
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NewLearningProgress returns the zero state of a (user, item) pair that has never been reviewed
func NewLearningProgress(userID, itemID uuid.UUID) LearningProgress {
	return LearningProgress{
		UserID: userID,
		ItemID: itemID,
	}
}

// Ease returns the ease factor, falling back to DefaultEaseFactor when it was never set
func (p LearningProgress) Ease() float64 {
	if p.EaseFactor == nil {
		return DefaultEaseFactor
	}
	return *p.EaseFactor
}

// IsNew reports whether the record has not been written to the store yet
func (p LearningProgress) IsNew() bool {
	return p.Version == 0
}

// ProgressSummary aggregates a user's learning progress
type ProgressSummary struct {
	UserID      uuid.UUID `json:"user_id" db:"user_id"`
	Tracked     int       `json:"tracked" db:"tracked"`
	Due         int       `json:"due" db:"due"`
	Mastered    int       `json:"mastered" db:"mastered"`
	AverageEase float64   `json:"average_ease" db:"average_ease"`
}
