package mock_bot

import tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

type MockAPI struct {
	SentMessages []tgbotapi.Chattable
	Requests     []tgbotapi.Chattable
	Updates      chan tgbotapi.Update
	Stopped      bool
}

func NewMockAPI() *MockAPI {
	return &MockAPI{Updates: make(chan tgbotapi.Update, 10)}
}

func (m *MockAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.SentMessages = append(m.SentMessages, c)
	return tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 123}}, nil
}

func (m *MockAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.Requests = append(m.Requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *MockAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.Updates
}

func (m *MockAPI) StopReceivingUpdates() {
	m.Stopped = true
}

// Texts returns the text of every sent message
func (m *MockAPI) Texts() []string {
	texts := make([]string, 0, len(m.SentMessages))
	for _, c := range m.SentMessages {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

func ClearSentMessages(api *MockAPI) {
	api.SentMessages = nil
}
