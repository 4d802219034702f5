package bot

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1champsstandings/pkg/subscriptions"
)

const menuAlerts = "/avisos"

// Subscriber keeps the alert subscriptions of Telegram users.
type Subscriber interface {
	Toggle(user subscriptions.TelegramUser) (bool, error)
}

type AlertsApp struct {
	bot        Sender
	subscriber Subscriber
}

func NewAlertsApp(bot Sender, subscriber Subscriber) *AlertsApp {
	return &AlertsApp{
		bot:        bot,
		subscriber: subscriber,
	}
}

func (aa *AlertsApp) AcceptCommand(command string) (bool, func(ctx context.Context, message *tgbotapi.Message) error) {
	if command == menuAlerts {
		return true, aa.toggle
	}
	return false, nil
}

func (aa *AlertsApp) AcceptButton(button string) (bool, func(ctx context.Context, message *tgbotapi.Message) error) {
	if button == buttonAlerts {
		return true, aa.toggle
	}
	return false, nil
}

func (aa *AlertsApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	return false, nil
}

func (aa *AlertsApp) toggle(ctx context.Context, message *tgbotapi.Message) error {
	user := telegramUser(message)
	enabled, err := aa.subscriber.Toggle(user)
	if err != nil {
		if _, sendErr := aa.bot.Send(tgbotapi.NewMessage(message.Chat.ID, "No se pudo cambiar la suscripción. Inténtalo más tarde.")); sendErr != nil {
			return sendErr
		}
		return err
	}
	_, err = aa.bot.Send(tgbotapi.NewMessage(message.Chat.ID, AlertsText(enabled)))
	return err
}

// AlertsText describes the subscription status after a toggle.
func AlertsText(enabled bool) string {
	if enabled {
		return fmt.Sprintf("%s Avisos activados: recibirás la clasificación cuando cambie la de la última temporada.", subscriptions.Symbol(true))
	}
	return fmt.Sprintf("%s Avisos desactivados.", subscriptions.Symbol(false))
}

func telegramUser(message *tgbotapi.Message) subscriptions.TelegramUser {
	user := subscriptions.TelegramUser{
		ChatID: strconv.FormatInt(message.Chat.ID, 10),
	}
	if message.From != nil {
		user.ID = strconv.FormatInt(message.From.ID, 10)
		user.Name = message.From.UserName
		if user.Name == "" {
			user.Name = message.From.FirstName
		}
	} else {
		user.ID = user.ChatID
	}
	return user
}
