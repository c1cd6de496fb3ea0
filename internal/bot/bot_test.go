package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mock_bot "github.com/example/studyreview/internal/bot/mock"
	"github.com/example/studyreview/internal/spaced_repetition"
	"github.com/example/studyreview/pkg/models"
)

const chatID int64 = 42

type reviewCall struct {
	userID  uuid.UUID
	itemID  uuid.UUID
	quality spaced_repetition.Quality
}

type fakeReviewer struct {
	due     []models.Item
	summary models.ProgressSummary
	reviews []reviewCall
	err     error
}

func (f *fakeReviewer) RecordReview(_ context.Context, userID, itemID uuid.UUID, quality spaced_repetition.Quality) (*models.LearningProgress, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.reviews = append(f.reviews, reviewCall{userID: userID, itemID: itemID, quality: quality})
	p := models.NewLearningProgress(userID, itemID)
	p.Interval = 6
	return &p, nil
}

func (f *fakeReviewer) GetDueItems(context.Context, uuid.UUID, *uuid.UUID) ([]models.Item, error) {
	return f.due, f.err
}

func (f *fakeReviewer) Summary(context.Context, uuid.UUID) (models.ProgressSummary, error) {
	return f.summary, f.err
}

type fakeChats struct {
	users map[int64]uuid.UUID
}

func (f *fakeChats) SetChatID(_ context.Context, userID uuid.UUID, chatID int64) error {
	f.users[chatID] = userID
	return nil
}

func (f *fakeChats) UserID(_ context.Context, chatID int64) (uuid.UUID, bool, error) {
	userID, ok := f.users[chatID]
	return userID, ok, nil
}

func command(text string) tgbotapi.Update {
	length := strings.IndexByte(text, ' ')
	if length < 0 {
		length = len(text)
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: length}},
	}}
}

func newTestBot(reviewer *fakeReviewer, linked *uuid.UUID) (*Bot, *mock_bot.MockAPI, *fakeChats) {
	api := mock_bot.NewMockAPI()
	chats := &fakeChats{users: map[int64]uuid.UUID{}}
	if linked != nil {
		chats.users[chatID] = *linked
	}
	return New(api, reviewer, chats, DefaultConfig(), zap.NewNop()), api, chats
}

func TestBot_Start(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		text       string
		wantLinked bool
		wantReply  string
	}{
		{name: "links chat", text: "/start " + userID.String(), wantLinked: true, wantReply: "Welcome!"},
		{name: "missing user id", text: "/start", wantReply: "Send /start followed by your user id"},
		{name: "malformed user id", text: "/start bob", wantReply: "Send /start followed by your user id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api, chats := newTestBot(&fakeReviewer{}, nil)

			b.handleUpdate(context.Background(), command(tt.text))

			linked, ok := chats.users[chatID]
			assert.Equal(t, tt.wantLinked, ok)
			if tt.wantLinked {
				assert.Equal(t, userID, linked)
			}
			require.Len(t, api.Texts(), 1)
			assert.Contains(t, api.Texts()[0], tt.wantReply)
		})
	}
}

func TestBot_Due(t *testing.T) {
	userID := uuid.New()
	first := models.Item{ID: uuid.New(), Front: "la manzana", Active: true}
	second := models.Item{ID: uuid.New(), Front: "el perro", Active: true}

	t.Run("unlinked chat", func(t *testing.T) {
		b, api, _ := newTestBot(&fakeReviewer{due: []models.Item{first}}, nil)
		b.handleUpdate(context.Background(), command("/due"))
		assert.Equal(t, []string{"This chat is not linked yet. Send /start <user-id> first."}, api.Texts())
	})

	t.Run("nothing due", func(t *testing.T) {
		b, api, _ := newTestBot(&fakeReviewer{}, &userID)
		b.handleUpdate(context.Background(), command("/due"))
		assert.Equal(t, []string{"Nothing to review right now. 🎉"}, api.Texts())
	})

	t.Run("lists items with quality buttons", func(t *testing.T) {
		b, api, _ := newTestBot(&fakeReviewer{due: []models.Item{first, second}}, &userID)
		b.handleUpdate(context.Background(), command("/due"))

		require.Len(t, api.SentMessages, 3)
		msg, ok := api.SentMessages[1].(tgbotapi.MessageConfig)
		require.True(t, ok)
		assert.Equal(t, "la manzana", msg.Text)

		keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, keyboard.InlineKeyboard, 1)
		require.Len(t, keyboard.InlineKeyboard[0], 6)
		assert.Equal(t, "review:"+first.ID.String()+":0", *keyboard.InlineKeyboard[0][0].CallbackData)
		assert.Equal(t, "review:"+first.ID.String()+":5", *keyboard.InlineKeyboard[0][5].CallbackData)
	})

	t.Run("batch size limits items", func(t *testing.T) {
		b, api, _ := newTestBot(&fakeReviewer{due: []models.Item{first, second}}, &userID)
		b.config.DueBatchSize = 1
		b.handleUpdate(context.Background(), command("/due"))
		assert.Len(t, api.SentMessages, 2)
	})
}

func TestBot_ReviewCallback(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()
	reviewer := &fakeReviewer{}
	b, api, _ := newTestBot(reviewer, &userID)

	b.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    "review:" + itemID.String() + ":4",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: chatID}},
	}})

	require.Len(t, api.Requests, 1)
	require.Len(t, reviewer.reviews, 1)
	assert.Equal(t, reviewCall{userID: userID, itemID: itemID, quality: spaced_repetition.QualityCorrectHesitation}, reviewer.reviews[0])
	assert.Equal(t, []string{"Saved. Next review in 6 days."}, api.Texts())
}

func TestBot_ReviewCommand(t *testing.T) {
	userID := uuid.New()
	itemID := uuid.New()

	tests := []struct {
		name      string
		text      string
		err       error
		wantReply string
	}{
		{name: "records review", text: "/review " + itemID.String() + " 5", wantReply: "Saved. Next review in 6 days."},
		{name: "missing quality", text: "/review " + itemID.String(), wantReply: "Usage: /review <item-id> <0-5>"},
		{name: "bad item id", text: "/review apple 5", wantReply: "That is not a valid item id."},
		{name: "bad quality", text: "/review " + itemID.String() + " five", wantReply: "Quality must be a number from 0 to 5."},
		{name: "invalid quality", text: "/review " + itemID.String() + " 9", err: spaced_repetition.ErrInvalidQuality, wantReply: "Quality must be a number from 0 to 5."},
		{name: "unknown item", text: "/review " + itemID.String() + " 3", err: models.ErrItemNotFound, wantReply: "That item does not exist."},
		{name: "store failure", text: "/review " + itemID.String() + " 3", err: errors.New("db down"), wantReply: "Sorry, your review was not saved. Please try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, api, _ := newTestBot(&fakeReviewer{err: tt.err}, &userID)
			b.handleUpdate(context.Background(), command(tt.text))
			assert.Equal(t, []string{tt.wantReply}, api.Texts())
		})
	}
}

func TestBot_Stats(t *testing.T) {
	userID := uuid.New()
	b, api, _ := newTestBot(&fakeReviewer{summary: models.ProgressSummary{
		UserID:      userID,
		Tracked:     12,
		Due:         3,
		Mastered:    4,
		AverageEase: 2.456,
	}}, &userID)

	b.handleUpdate(context.Background(), command("/stats"))
	assert.Equal(t, []string{"📊 Your statistics\n\nTracked: 12\nDue now: 3\nMastered: 4\nAverage ease: 2.46"}, api.Texts())
}

func TestBot_Run(t *testing.T) {
	b, api, _ := newTestBot(&fakeReviewer{}, nil)

	api.Updates <- command("/help")
	api.Updates <- command("/unknown")
	close(api.Updates)

	b.Run(context.Background())

	assert.True(t, api.Stopped)
	assert.Equal(t, []string{helpText, "Unknown command. Use /help to see the commands."}, api.Texts())
}

func TestBot_RunStopsOnCancel(t *testing.T) {
	b, api, _ := newTestBot(&fakeReviewer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	b.Run(ctx)

	assert.True(t, api.Stopped)
	assert.Empty(t, api.SentMessages)
}
