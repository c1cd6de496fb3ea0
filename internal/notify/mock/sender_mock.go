package mock_notify

import (
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type MockSender struct {
	SentMessages []tgbotapi.Chattable
	Fail         bool
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m.Fail {
		return tgbotapi.Message{}, errors.New("telegram unavailable")
	}
	m.SentMessages = append(m.SentMessages, c)
	return tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 123}}, nil
}
