package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/studyreview/internal/spaced_repetition"
	"github.com/example/studyreview/pkg/models"
)

// API is the part of tgbotapi.BotAPI the bot talks to
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Reviewer records reviews and lists due items
type Reviewer interface {
	RecordReview(ctx context.Context, userID, itemID uuid.UUID, quality spaced_repetition.Quality) (*models.LearningProgress, error)
	GetDueItems(ctx context.Context, userID uuid.UUID, collectionID *uuid.UUID) ([]models.Item, error)
	Summary(ctx context.Context, userID uuid.UUID) (models.ProgressSummary, error)
}

// ChatRegistry links Telegram chats to users
type ChatRegistry interface {
	SetChatID(ctx context.Context, userID uuid.UUID, chatID int64) error
	UserID(ctx context.Context, chatID int64) (uuid.UUID, bool, error)
}

// MenuButton represents a button in an inline keyboard
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot is the Telegram front end of the review service
type Bot struct {
	api     API
	reviews Reviewer
	chats   ChatRegistry
	config  BotConfig
	log     *zap.Logger
}

// Connect authorizes against the Bot API
func Connect(token string, debug bool, log *zap.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	api.Debug = debug

	log.Info("authorized on telegram", zap.String("account", api.Self.UserName))
	return api, nil
}

// New creates a new bot instance
func New(api API, reviews Reviewer, chats ChatRegistry, config BotConfig, log *zap.Logger) *Bot {
	if config.DueBatchSize <= 0 {
		config.DueBatchSize = DefaultConfig().DueBatchSize
	}
	return &Bot{
		api:     api,
		reviews: reviews,
		chats:   chats,
		config:  config,
		log:     log,
	}
}

// Run handles updates until ctx is cancelled
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout

	updates := b.api.GetUpdatesChan(updateConfig)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.reply(update.Message.Chat.ID, "I don't understand. Use /help to see the commands.")
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStartCommand(ctx, message)
	case "due":
		b.handleDueCommand(ctx, message)
	case "review":
		b.handleReviewCommand(ctx, message)
	case "stats":
		b.handleStatsCommand(ctx, message)
	case "help":
		b.reply(message.Chat.ID, helpText)
	default:
		b.reply(message.Chat.ID, "Unknown command. Use /help to see the commands.")
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("failed to send message", zap.Error(err))
	}
}
