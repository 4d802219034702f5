// Package bot is the Telegram front end of the season standings: it lists
// seasons, shows the standings of a selected one and manages alerts.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Bot struct {
	api    Sender
	app    Accepter
	logger *slog.Logger
}

func New(api Sender, app Accepter, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bot{
		api:    api,
		app:    app,
		logger: logger,
	}
}

// ReceiveUpdates handles updates until ctx is cancelled or the channel is
// closed.
func (b *Bot) ReceiveUpdates(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	var err error
	switch {
	case update.Message != nil:
		err = b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = b.handleCallback(ctx, update.CallbackQuery)
	}
	if err != nil {
		b.logger.Error("handling telegram update", "update", update.UpdateID, "error", err)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	text := strings.TrimSpace(message.Text)
	if text == "" {
		return nil
	}

	if command, ok := parseCommand(text); ok {
		if accept, handler := b.app.AcceptCommand(command); accept {
			return handler(ctx, message)
		}
		_, err := b.api.Send(tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("No conozco el comando %s. Prueba %s", command, menuMenu)))
		return err
	}

	if accept, handler := b.app.AcceptButton(text); accept {
		return handler(ctx, message)
	}
	return nil
}

func (b *Bot) handleCallback(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	if query.Message == nil {
		return nil
	}
	if accept, handler := b.app.AcceptCallback(query); accept {
		return handler(ctx, query)
	}
	return nil
}

// parseCommand extracts "/cmd" from "/cmd@botname args".
func parseCommand(text string) (string, bool) {
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	command := strings.Fields(text)[0]
	if i := strings.Index(command, "@"); i >= 0 {
		command = command[:i]
	}
	return strings.ToLower(command), true
}
