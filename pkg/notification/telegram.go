package notification

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/pkg/errors"
)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram is a notify service backed by the v5 bot client. Message bodies
// are sent as HTML.
type Telegram struct {
	client  sender
	chatIDs []int64
}

// SetClient accepts a *tgbotapi.BotAPI or anything that sends like one.
func (t *Telegram) SetClient(client sender) {
	t.client = client
}

func (t *Telegram) AddReceivers(chatIDs ...int64) {
	t.chatIDs = append(t.chatIDs, chatIDs...)
}

func (t Telegram) Send(ctx context.Context, subject, message string) error {
	msg := tgbotapi.NewMessage(0, subject+"\n"+message)
	msg.ParseMode = tgbotapi.ModeHTML

	for _, chatID := range t.chatIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg.ChatID = chatID
		if _, err := t.client.Send(msg); err != nil {
			return errors.Wrapf(err, "failed to send message to Telegram chat '%d'", chatID)
		}
	}
	return nil
}
