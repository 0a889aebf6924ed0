package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of the bot API the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts events to a Telegram chat.
type TelegramNotifier struct {
	bot    sender
	chatID int64
}

// NewTelegramNotifier connects to the bot API with token.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" || chatID == 0 {
		return nil, fmt.Errorf("telegram bot token and chat id are required")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return &TelegramNotifier{bot: bot, chatID: chatID}, nil
}

// Notify implements Notifier.
func (t *TelegramNotifier) Notify(ctx context.Context, event Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(t.chatID, FormatHTML(event))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

var levelIcons = map[Level]string{
	LevelInfo:    "✅",
	LevelWarning: "⚠️",
	LevelAlert:   "🚨",
}

// FormatHTML renders an event in Telegram's HTML parse mode.
func FormatHTML(event Event) string {
	var sb strings.Builder
	if icon, ok := levelIcons[event.Level]; ok {
		sb.WriteString(icon)
		sb.WriteString(" ")
	}
	sb.WriteString("<b>")
	sb.WriteString(html.EscapeString(event.Title))
	sb.WriteString("</b>")
	for _, f := range event.Fields {
		sb.WriteString("\n")
		sb.WriteString(html.EscapeString(f.Key))
		sb.WriteString(": ")
		sb.WriteString(html.EscapeString(f.Value))
	}
	return sb.String()
}
