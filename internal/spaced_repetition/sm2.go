package spaced_repetition

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/example/studyreview/pkg/models"
)

// ErrInvalidQuality is returned for a quality outside [0, 5]
var ErrInvalidQuality = errors.New("quality must be between 0 and 5")

const (
	// MinEaseFactor is the hard floor of the ease factor
	MinEaseFactor = 1.3
	// PassThreshold is the lowest quality counted as a successful recall
	PassThreshold = QualityCorrectDifficult
)

// Mastery thresholds, shared with the statistics queries
const (
	MasteredRepetitions = 5
	MasteredQuality     = int(QualityCorrectHesitation)
	MasteredInterval    = 30
)

// Quality is the learner's self-assessment of a recall in SM-2
type Quality int

const (
	// Complete blackout, unable to recall
	QualityBlackout Quality = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect Quality = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar Quality = 2
	// Correct response but required significant effort
	QualityCorrectDifficult Quality = 3
	// Correct response after some hesitation
	QualityCorrectHesitation Quality = 4
	// Perfect response with no hesitation
	QualityPerfect Quality = 5
)

// Valid reports whether q is within [0, 5]
func (q Quality) Valid() bool {
	return q >= QualityBlackout && q <= QualityPerfect
}

// Passed reports whether q counts as a successful recall
func (q Quality) Passed() bool {
	return q >= PassThreshold
}

// Schedule is the outcome of a single review
type Schedule struct {
	Repetitions int
	Interval    int
	EaseFactor  float64
	NextReview  time.Time
}

// SM2 implements the SuperMemo-2 algorithm for spaced repetition
type SM2 struct {
	// Maximum interval in days, 0 means uncapped
	MaxInterval int
}

// NewSM2 creates an SM2 with default settings
func NewSM2() *SM2 {
	return &SM2{}
}

// ComputeNextReview computes the next schedule of an item from its current progress.
// It is a pure function of its arguments: progress is not modified and the wall clock is not read.
func (sm *SM2) ComputeNextReview(quality Quality, progress models.LearningProgress, now time.Time) (Schedule, error) {
	if !quality.Valid() {
		return Schedule{}, fmt.Errorf("%w: got %d", ErrInvalidQuality, quality)
	}

	repetitions := progress.Repetitions
	interval := progress.Interval
	ease := progress.Ease()

	if !quality.Passed() {
		repetitions = 0
		interval = 1
	} else {
		// The multiply uses the ease factor from before this review
		switch repetitions {
		case 0:
			interval = 1
		case 1:
			interval = 6
		default:
			interval = int(math.RoundToEven(float64(interval) * ease))
		}
		if interval < 1 {
			interval = 1
		}
		if sm.MaxInterval > 0 && interval > sm.MaxInterval {
			interval = sm.MaxInterval
		}
		repetitions++
	}

	q := float64(QualityPerfect - quality)
	ease += 0.1 - q*(0.08+q*0.02)
	if ease < MinEaseFactor {
		ease = MinEaseFactor
	}

	return Schedule{
		Repetitions: repetitions,
		Interval:    interval,
		EaseFactor:  ease,
		NextReview:  now.AddDate(0, 0, interval),
	}, nil
}

// Process applies a review to progress and returns the updated record.
// The caller's value is left untouched; persisting the result is up to the caller.
func (sm *SM2) Process(progress models.LearningProgress, quality Quality, now time.Time) (models.LearningProgress, error) {
	schedule, err := sm.ComputeNextReview(quality, progress, now)
	if err != nil {
		return progress, err
	}

	lastQuality := int(quality)
	reviewed := now
	next := schedule.NextReview
	ease := schedule.EaseFactor

	progress.Repetitions = schedule.Repetitions
	progress.Interval = schedule.Interval
	progress.EaseFactor = &ease
	progress.LastQuality = &lastQuality
	progress.LastReviewed = &reviewed
	progress.NextReview = &next

	return progress, nil
}

// IsMastered determines if an item is considered "mastered"
func (sm *SM2) IsMastered(progress models.LearningProgress) bool {
	// An item is considered mastered if:
	// 1. It has been recalled at least 5 times in a row
	// 2. The latest quality response was 4 or 5
	// 3. The interval is at least 30 days
	return progress.Repetitions >= MasteredRepetitions &&
		progress.LastQuality != nil && *progress.LastQuality >= MasteredQuality &&
		progress.Interval >= MasteredInterval
}
