package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ChatRepository maps users to the Telegram chats reminders are sent to
type ChatRepository struct {
	db *sqlx.DB
}

// NewChatRepository creates a new repository instance
func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

// ChatID returns the chat registered for a user; ok is false when there is none
func (r *ChatRepository) ChatID(ctx context.Context, userID uuid.UUID) (chatID int64, ok bool, err error) {
	query := r.db.Rebind(`SELECT chat_id FROM notification_chats WHERE user_id = ?`)
	err = r.db.GetContext(ctx, &chatID, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get chat for user %s: %w", userID, err)
	}
	return chatID, true, nil
}

// SetChatID registers or replaces the chat of a user
func (r *ChatRepository) SetChatID(ctx context.Context, userID uuid.UUID, chatID int64) error {
	query := r.db.Rebind(`
		INSERT INTO notification_chats (user_id, chat_id, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			chat_id = EXCLUDED.chat_id,
			updated_at = EXCLUDED.updated_at
	`)
	_, err := r.db.ExecContext(ctx, query, userID, chatID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set chat for user %s: %w", userID, err)
	}
	return nil
}

// UserID returns the user linked to a chat; ok is false when there is none
func (r *ChatRepository) UserID(ctx context.Context, chatID int64) (userID uuid.UUID, ok bool, err error) {
	query := r.db.Rebind(`SELECT user_id FROM notification_chats WHERE chat_id = ? ORDER BY updated_at DESC LIMIT 1`)
	err = r.db.GetContext(ctx, &userID, query, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to get user for chat %d: %w", chatID, err)
	}
	return userID, true, nil
}
