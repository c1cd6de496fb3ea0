package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	mock_notify "github.com/example/studyreview/internal/notify/mock"
	"github.com/example/studyreview/pkg/models"
)

type chatMap struct {
	chats map[uuid.UUID]int64
	err   error
}

func (c chatMap) ChatID(_ context.Context, userID uuid.UUID) (int64, bool, error) {
	if c.err != nil {
		return 0, false, c.err
	}
	id, ok := c.chats[userID]
	return id, ok, nil
}

func TestTelegram_NotifyDue(t *testing.T) {
	registered := uuid.New()
	unknown := uuid.New()
	summary := models.ProgressSummary{UserID: registered, Tracked: 10, Due: 3, Mastered: 2}

	tests := []struct {
		name     string
		userID   uuid.UUID
		chats    chatMap
		fail     bool
		wantErr  bool
		wantSent int
	}{
		{
			name:     "registered chat",
			userID:   registered,
			chats:    chatMap{chats: map[uuid.UUID]int64{registered: 42}},
			wantSent: 1,
		},
		{
			name:     "no chat registered",
			userID:   unknown,
			chats:    chatMap{chats: map[uuid.UUID]int64{registered: 42}},
			wantSent: 0,
		},
		{
			name:    "chat lookup fails",
			userID:  registered,
			chats:   chatMap{err: errors.New("db error")},
			wantErr: true,
		},
		{
			name:    "send fails",
			userID:  registered,
			chats:   chatMap{chats: map[uuid.UUID]int64{registered: 42}},
			fail:    true,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &mock_notify.MockSender{Fail: tt.fail}
			notifier := NewTelegram(sender, tt.chats, zap.NewNop())

			err := notifier.NotifyDue(context.Background(), tt.userID, summary)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, sender.SentMessages, tt.wantSent)

			if tt.wantSent > 0 {
				msg, ok := sender.SentMessages[0].(tgbotapi.MessageConfig)
				require.True(t, ok)
				assert.Equal(t, int64(42), msg.ChatID)
				assert.Equal(t, "You have 3 items to review (10 tracked, 2 mastered).", msg.Text)
			}
		})
	}
}

func TestReminderText(t *testing.T) {
	assert.Equal(t, "You have 1 item to review (1 tracked, 0 mastered).",
		ReminderText(models.ProgressSummary{Tracked: 1, Due: 1}))
}

func TestLog_NotifyDue(t *testing.T) {
	require.NoError(t, NewLog(zap.NewNop()).NotifyDue(context.Background(), uuid.New(), models.ProgressSummary{Due: 2}))
}
