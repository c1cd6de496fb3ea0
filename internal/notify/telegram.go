package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/studyreview/pkg/models"
)

// Sender is the part of tgbotapi.BotAPI used to deliver messages
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ChatDirectory resolves the Telegram chat of a user
type ChatDirectory interface {
	ChatID(ctx context.Context, userID uuid.UUID) (int64, bool, error)
}

// Telegram sends due-review reminders through a Telegram bot
type Telegram struct {
	sender Sender
	chats  ChatDirectory
	log    *zap.Logger
}

// NewTelegram creates a notifier on top of an existing sender
func NewTelegram(sender Sender, chats ChatDirectory, log *zap.Logger) *Telegram {
	return &Telegram{sender: sender, chats: chats, log: log}
}

// NotifyDue sends a reminder to the user's chat. Users without a registered chat are skipped.
func (t *Telegram) NotifyDue(ctx context.Context, userID uuid.UUID, summary models.ProgressSummary) error {
	chatID, ok, err := t.chats.ChatID(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		t.log.Debug("no chat registered, skipping reminder", zap.String("user_id", userID.String()))
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, ReminderText(summary))
	if _, err := t.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder to chat %d: %w", chatID, err)
	}

	t.log.Info("sent reminder",
		zap.String("user_id", userID.String()),
		zap.Int64("chat_id", chatID),
		zap.Int("due", summary.Due),
	)
	return nil
}

// ReminderText renders the reminder message for a summary
func ReminderText(summary models.ProgressSummary) string {
	noun := "items"
	if summary.Due == 1 {
		noun = "item"
	}
	return fmt.Sprintf("You have %d %s to review (%d tracked, %d mastered).",
		summary.Due, noun, summary.Tracked, summary.Mastered)
}
