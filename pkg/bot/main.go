package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	menuStart     = "/start"
	menuMenu      = "/menu"
	buttonSeasons = "Temporadas"
	buttonLatest  = "Última temporada"
	buttonAlerts  = "Avisos"
)

var (
	menuKeyboard = tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonLatest),
			tgbotapi.NewKeyboardButton(buttonSeasons),
			tgbotapi.NewKeyboardButton(buttonAlerts),
		),
	)
)

type MainApp struct {
	bot       Sender
	accepters []Accepter
}

func NewMainApp(bot Sender, standings Standings, subscriber Subscriber) *MainApp {
	seasonsApp := NewSeasonsApp(bot, standings)
	alertsApp := NewAlertsApp(bot, subscriber)

	return &MainApp{
		bot:       bot,
		accepters: []Accepter{seasonsApp, alertsApp},
	}
}

func (m *MainApp) AcceptCommand(command string) (bool, func(ctx context.Context, message *tgbotapi.Message) error) {
	if command == menuStart {
		return true, m.renderStart()
	} else if command == menuMenu {
		return true, m.renderMenu()
	}
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCommand(command)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptCallback(query)
		if accept {
			return true, handler
		}
	}

	return false, nil
}

func (m *MainApp) AcceptButton(button string) (bool, func(ctx context.Context, message *tgbotapi.Message) error) {
	for _, accepter := range m.accepters {
		accept, handler := accepter.AcceptButton(button)
		if accept {
			return true, handler
		}
	}
	return false, nil
}

func (m *MainApp) renderStart() func(ctx context.Context, message *tgbotapi.Message) error {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		text := "Hola, soy el bot de F1Champs que muestra la clasificación de pilotos de cada temporada.\n\n"
		text += "Puedes usar los siguientes comandos:\n\n"
		text += fmt.Sprintf("%s - Muestra el menú del bot\n", menuMenu)
		text += fmt.Sprintf("%s - Lista las temporadas disponibles\n", menuSeasons)
		text += "/2023 - Clasificación de una temporada\n"
		text += fmt.Sprintf("%s - Activa o desactiva los avisos de cambios en la clasificación\n", menuAlerts)
		msg := tgbotapi.NewMessage(message.Chat.ID, text)
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}

func (m *MainApp) renderMenu() func(ctx context.Context, message *tgbotapi.Message) error {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Menú del bot.\n\n")
		msg.ReplyMarkup = menuKeyboard
		_, err := m.bot.Send(msg)
		return err
	}
}
