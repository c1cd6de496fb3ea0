package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/studyreview/internal/spaced_repetition"
	"github.com/example/studyreview/pkg/models"
)

const helpText = `Available commands:
/start <user-id> - Link this chat to your account
/due - Show the items due for review
/review <item-id> <0-5> - Record a review
/stats - Show your statistics`

const reviewCallbackPrefix = "review:"

func (b *Bot) handleStartCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID, err := uuid.Parse(strings.TrimSpace(message.CommandArguments()))
	if err != nil {
		b.reply(chatID, "Send /start followed by your user id to receive reminders here.\n\n"+helpText)
		return
	}

	if err := b.chats.SetChatID(ctx, userID, chatID); err != nil {
		b.log.Error("failed to link chat", zap.Int64("chat_id", chatID), zap.Error(err))
		b.reply(chatID, "Sorry, linking this chat failed. Please try again later.")
		return
	}

	b.log.Info("linked chat", zap.Int64("chat_id", chatID), zap.String("user_id", userID.String()))
	b.reply(chatID, "Welcome! Reminders for due reviews will be sent to this chat.\n\n"+helpText)
}

func (b *Bot) handleDueCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID, ok := b.linkedUser(ctx, chatID)
	if !ok {
		return
	}

	items, err := b.reviews.GetDueItems(ctx, userID, nil)
	if err != nil {
		b.log.Error("failed to get due items", zap.String("user_id", userID.String()), zap.Error(err))
		b.reply(chatID, "Sorry, I could not load your reviews.")
		return
	}
	if len(items) == 0 {
		b.reply(chatID, "Nothing to review right now. 🎉")
		return
	}

	b.reply(chatID, fmt.Sprintf("You have %d items due. Rate each recall from 0 (blackout) to 5 (perfect).", len(items)))
	if len(items) > b.config.DueBatchSize {
		items = items[:b.config.DueBatchSize]
	}
	for _, item := range items {
		msg := tgbotapi.NewMessage(chatID, item.Front)
		msg.ReplyMarkup = createKeyboard(qualityButtons(item.ID))
		b.send(msg)
	}
}

func (b *Bot) handleReviewCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	args := strings.Fields(message.CommandArguments())
	if len(args) != 2 {
		b.reply(chatID, "Usage: /review <item-id> <0-5>")
		return
	}

	itemID, err := uuid.Parse(args[0])
	if err != nil {
		b.reply(chatID, "That is not a valid item id.")
		return
	}
	quality, err := strconv.Atoi(args[1])
	if err != nil {
		b.reply(chatID, "Quality must be a number from 0 to 5.")
		return
	}

	userID, ok := b.linkedUser(ctx, chatID)
	if !ok {
		return
	}
	b.recordReview(ctx, chatID, userID, itemID, spaced_repetition.Quality(quality))
}

func (b *Bot) handleStatsCommand(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	userID, ok := b.linkedUser(ctx, chatID)
	if !ok {
		return
	}

	summary, err := b.reviews.Summary(ctx, userID)
	if err != nil {
		b.log.Error("failed to get summary", zap.String("user_id", userID.String()), zap.Error(err))
		b.reply(chatID, "Sorry, I could not load your statistics.")
		return
	}
	b.reply(chatID, formatStats(summary))
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Warn("failed to answer callback", zap.Error(err))
	}
	if callback.Message == nil || !strings.HasPrefix(callback.Data, reviewCallbackPrefix) {
		return
	}

	chatID := callback.Message.Chat.ID
	itemID, quality, err := parseReviewCallback(callback.Data)
	if err != nil {
		b.log.Warn("malformed review callback", zap.String("data", callback.Data), zap.Error(err))
		return
	}

	userID, ok := b.linkedUser(ctx, chatID)
	if !ok {
		return
	}
	b.recordReview(ctx, chatID, userID, itemID, quality)
}

func (b *Bot) recordReview(ctx context.Context, chatID int64, userID, itemID uuid.UUID, quality spaced_repetition.Quality) {
	progress, err := b.reviews.RecordReview(ctx, userID, itemID, quality)
	switch {
	case errors.Is(err, spaced_repetition.ErrInvalidQuality):
		b.reply(chatID, "Quality must be a number from 0 to 5.")
	case errors.Is(err, models.ErrItemNotFound):
		b.reply(chatID, "That item does not exist.")
	case err != nil:
		b.log.Error("failed to record review",
			zap.String("user_id", userID.String()),
			zap.String("item_id", itemID.String()),
			zap.Error(err),
		)
		b.reply(chatID, "Sorry, your review was not saved. Please try again.")
	default:
		b.reply(chatID, fmt.Sprintf("Saved. Next review in %s.", days(progress.Interval)))
	}
}

// linkedUser resolves the user of a chat, telling the chat how to link itself when there is none
func (b *Bot) linkedUser(ctx context.Context, chatID int64) (uuid.UUID, bool) {
	userID, ok, err := b.chats.UserID(ctx, chatID)
	if err != nil {
		b.log.Error("failed to resolve chat", zap.Int64("chat_id", chatID), zap.Error(err))
		b.reply(chatID, "Sorry, something went wrong. Please try again later.")
		return uuid.Nil, false
	}
	if !ok {
		b.reply(chatID, "This chat is not linked yet. Send /start <user-id> first.")
		return uuid.Nil, false
	}
	return userID, true
}

func qualityButtons(itemID uuid.UUID) [][]MenuButton {
	row := make([]MenuButton, 0, int(spaced_repetition.QualityPerfect)+1)
	for q := spaced_repetition.QualityBlackout; q <= spaced_repetition.QualityPerfect; q++ {
		row = append(row, MenuButton{
			Text:         strconv.Itoa(int(q)),
			CallbackData: fmt.Sprintf("%s%s:%d", reviewCallbackPrefix, itemID, q),
		})
	}
	return [][]MenuButton{row}
}

func parseReviewCallback(data string) (uuid.UUID, spaced_repetition.Quality, error) {
	parts := strings.Split(strings.TrimPrefix(data, reviewCallbackPrefix), ":")
	if len(parts) != 2 {
		return uuid.Nil, 0, fmt.Errorf("expected item and quality, got %d parts", len(parts))
	}
	itemID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, 0, err
	}
	quality, err := strconv.Atoi(parts[1])
	if err != nil {
		return uuid.Nil, 0, err
	}
	return itemID, spaced_repetition.Quality(quality), nil
}

func formatStats(summary models.ProgressSummary) string {
	return fmt.Sprintf("📊 Your statistics\n\nTracked: %d\nDue now: %d\nMastered: %d\nAverage ease: %.2f",
		summary.Tracked, summary.Due, summary.Mastered, summary.AverageEase)
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
