package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/studyreview/internal/spaced_repetition"
	"github.com/example/studyreview/pkg/models"
)

const progressColumns = `lp.user_id, lp.item_id, lp.repetitions, lp.interval_days, lp.ease_factor, lp.last_quality,
	lp.last_reviewed, lp.next_review, lp.version, lp.created_at, lp.updated_at`

// Item is due when it is active and either has no collection or an active one
const activeItemCondition = `i.is_active = TRUE AND (c.id IS NULL OR c.is_active = TRUE)`

// ProgressRepository handles database operations for learning progress
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// GetProgress returns progress for a specific user and item, or nil if the item was never reviewed
func (r *ProgressRepository) GetProgress(ctx context.Context, userID, itemID uuid.UUID) (*models.LearningProgress, error) {
	query := r.db.Rebind(`
		SELECT ` + progressColumns + `
		FROM learning_progress lp
		WHERE lp.user_id = ? AND lp.item_id = ?
	`)

	var progress models.LearningProgress
	err := r.db.GetContext(ctx, &progress, query, userID, itemID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get learning progress: %w", err)
	}
	return &progress, nil
}

// SaveProgress inserts a new progress record or updates an existing one.
// The write only succeeds if the stored version still equals p.Version;
// otherwise models.ErrConcurrentModification is returned and nothing is written.
func (r *ProgressRepository) SaveProgress(ctx context.Context, p *models.LearningProgress) error {
	now := time.Now().UTC()
	if p.IsNew() {
		return r.insert(ctx, p, now)
	}
	return r.update(ctx, p, now)
}

func (r *ProgressRepository) insert(ctx context.Context, p *models.LearningProgress, now time.Time) error {
	query := r.db.Rebind(`
		INSERT INTO learning_progress (
			user_id, item_id, repetitions, interval_days, ease_factor, last_quality,
			last_reviewed, next_review, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT (user_id, item_id) DO NOTHING
	`)

	result, err := r.db.ExecContext(ctx, query,
		p.UserID,
		p.ItemID,
		p.Repetitions,
		p.Interval,
		p.EaseFactor,
		p.LastQuality,
		p.LastReviewed,
		p.NextReview,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create learning progress: %w", err)
	}

	if err := expectOneRow(result); err != nil {
		return err
	}

	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	return nil
}

func (r *ProgressRepository) update(ctx context.Context, p *models.LearningProgress, now time.Time) error {
	query := r.db.Rebind(`
		UPDATE learning_progress SET
			repetitions = ?,
			interval_days = ?,
			ease_factor = ?,
			last_quality = ?,
			last_reviewed = ?,
			next_review = ?,
			version = version + 1,
			updated_at = ?
		WHERE user_id = ? AND item_id = ? AND version = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		p.Repetitions,
		p.Interval,
		p.EaseFactor,
		p.LastQuality,
		p.LastReviewed,
		p.NextReview,
		now,
		p.UserID,
		p.ItemID,
		p.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update learning progress: %w", err)
	}

	if err := expectOneRow(result); err != nil {
		return err
	}

	p.Version++
	p.UpdatedAt = now
	return nil
}

func expectOneRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return models.ErrConcurrentModification
	}
	return nil
}

// DueItems returns the reviewed items whose next review is at or before filter.Now, earliest first.
// Times are compared in UTC since SQLite stores them as text.
func (r *ProgressRepository) DueItems(ctx context.Context, filter models.DueFilter) ([]models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM learning_progress lp
		JOIN items i ON i.id = lp.item_id
		LEFT JOIN collections c ON c.id = i.collection_id
		WHERE lp.user_id = ?
		AND lp.next_review IS NOT NULL
		AND lp.next_review <= ?
		AND ` + activeItemCondition
	args := []interface{}{filter.UserID, filter.Now.UTC()}

	if filter.CollectionID != nil {
		query += ` AND i.collection_id = ?`
		args = append(args, *filter.CollectionID)
	}
	query += ` ORDER BY lp.next_review ASC, i.id ASC`

	items := []models.Item{}
	err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get due items: %w", err)
	}
	return items, nil
}

// UsersWithDueItems returns every user that has at least one item due at now
func (r *ProgressRepository) UsersWithDueItems(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	query := r.db.Rebind(`
		SELECT DISTINCT lp.user_id
		FROM learning_progress lp
		JOIN items i ON i.id = lp.item_id
		LEFT JOIN collections c ON c.id = i.collection_id
		WHERE lp.next_review IS NOT NULL
		AND lp.next_review <= ?
		AND ` + activeItemCondition + `
		ORDER BY lp.user_id
	`)

	var users []uuid.UUID
	err := r.db.SelectContext(ctx, &users, query, now.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to get users with due items: %w", err)
	}
	return users, nil
}

// Summary returns statistics about a user's progress
func (r *ProgressRepository) Summary(ctx context.Context, userID uuid.UUID, now time.Time) (models.ProgressSummary, error) {
	query := r.db.Rebind(`
		SELECT
			COUNT(*) AS tracked,
			COALESCE(SUM(CASE WHEN lp.next_review <= ? AND ` + activeItemCondition + ` THEN 1 ELSE 0 END), 0) AS due,
			COALESCE(SUM(CASE WHEN lp.repetitions >= ? AND lp.last_quality >= ? AND lp.interval_days >= ? THEN 1 ELSE 0 END), 0) AS mastered,
			COALESCE(AVG(lp.ease_factor), ?) AS average_ease
		FROM learning_progress lp
		JOIN items i ON i.id = lp.item_id
		LEFT JOIN collections c ON c.id = i.collection_id
		WHERE lp.user_id = ?
	`)

	var summary models.ProgressSummary
	err := r.db.GetContext(ctx, &summary, query,
		now.UTC(),
		spaced_repetition.MasteredRepetitions,
		spaced_repetition.MasteredQuality,
		spaced_repetition.MasteredInterval,
		models.DefaultEaseFactor,
		userID,
	)
	if err != nil {
		return models.ProgressSummary{}, fmt.Errorf("failed to get progress summary for user %s: %w", userID, err)
	}
	summary.UserID = userID
	return summary, nil
}
