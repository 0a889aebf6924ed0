package notify

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	SendFunc func(c tgbotapi.Chattable) (tgbotapi.Message, error)
	sent     []tgbotapi.Chattable
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.sent = append(m.sent, c)
	if m.SendFunc != nil {
		return m.SendFunc(c)
	}
	return tgbotapi.Message{}, nil
}

// MockNotifier records events.
type MockNotifier struct {
	Events []Event
	Err    error
}

func (m *MockNotifier) Notify(_ context.Context, e Event) error {
	m.Events = append(m.Events, e)
	return m.Err
}

func TestEvent_WithAndString(t *testing.T) {
	base := Event{Level: LevelAlert, Title: "Price mismatch"}
	e := base.With("user", "u1").With("empty", "").With("amount", "9900")

	assert.Empty(t, base.Fields, "With must not mutate the receiver")
	assert.Equal(t, "[alert] Price mismatch (user=u1, amount=9900)", e.String())
	assert.Equal(t, "[info] ok", Event{Level: LevelInfo, Title: "ok"}.String())
}

func TestFormatHTML_Escapes(t *testing.T) {
	e := Event{Level: LevelWarning, Title: "Apply <failed>"}.With("job", "R&D")
	assert.Equal(t, "⚠️ <b>Apply &lt;failed&gt;</b>\njob: R&amp;D", FormatHTML(e))
}

func TestTelegramNotifier_Notify(t *testing.T) {
	s := &mockSender{}
	n := &TelegramNotifier{bot: s, chatID: 42}

	require.NoError(t, n.Notify(context.Background(), Event{Level: LevelInfo, Title: "Applied"}))
	require.Len(t, s.sent, 1)
	msg, ok := s.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "<b>Applied</b>")
}

func TestTelegramNotifier_SendError(t *testing.T) {
	s := &mockSender{SendFunc: func(_ tgbotapi.Chattable) (tgbotapi.Message, error) {
		return tgbotapi.Message{}, errors.New("chat not found")
	}}
	err := (&TelegramNotifier{bot: s, chatID: 1}).Notify(context.Background(), Event{Title: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestNewTelegramNotifier_RequiresConfig(t *testing.T) {
	_, err := NewTelegramNotifier("", 0)
	require.Error(t, err)
}

func TestSend_SwallowsErrors(t *testing.T) {
	m := &MockNotifier{Err: errors.New("down")}
	assert.NotPanics(t, func() {
		Send(context.Background(), m, Event{Title: "x"})
		Send(context.Background(), nil, Event{Title: "y"})
	})
	assert.Len(t, m.Events, 1)
}
