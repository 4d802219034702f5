package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1champsstandings/pkg/helper"
	"f1champsstandings/pkg/render"
	"f1champsstandings/pkg/seasons"
	"f1champsstandings/pkg/standings"
)

const (
	menuSeasons    = "/temporadas"
	pagerPrefix    = "pager"
	seasonsPerPage = 10
)

// Standings answers the season queries of the bot.
type Standings interface {
	Seasons(ctx context.Context) ([]int, error)
	Report(ctx context.Context, year int) (seasons.Report, error)
}

type SeasonsApp struct {
	bot       Sender
	standings Standings
}

func NewSeasonsApp(bot Sender, s Standings) *SeasonsApp {
	return &SeasonsApp{
		bot:       bot,
		standings: s,
	}
}

func (sa *SeasonsApp) AcceptCommand(command string) (bool, func(ctx context.Context, message *tgbotapi.Message) error) {
	if command == menuSeasons {
		return true, sa.renderSeasons()
	}
	year := strings.TrimPrefix(command, "/")
	if helper.IsYear(year) {
		y, _ := strconv.Atoi(year)
		return true, sa.renderStandings(y)
	}
	return false, nil
}

func (sa *SeasonsApp) AcceptButton(button string) (bool, func(ctx context.Context, message *tgbotapi.Message) error) {
	switch button {
	case buttonSeasons:
		return true, sa.renderSeasons()
	case buttonLatest:
		return true, sa.renderLatest()
	}
	return false, nil
}

func (sa *SeasonsApp) AcceptCallback(query *tgbotapi.CallbackQuery) (bool, func(ctx context.Context, query *tgbotapi.CallbackQuery) error) {
	if strings.HasPrefix(query.Data, pagerPrefix+":") {
		return true, sa.handleNavigationCallbackQuery
	}
	return false, nil
}

func (sa *SeasonsApp) renderSeasons() func(ctx context.Context, message *tgbotapi.Message) error {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		years, err := sa.standings.Seasons(ctx)
		if err != nil {
			return sa.sendError(message.Chat.ID, 0, err)
		}
		if len(years) == 0 {
			_, err = sa.bot.Send(tgbotapi.NewMessage(message.Chat.ID, "No hay temporadas disponibles"))
			return err
		}
		return sa.sendSeasonsPage(message.Chat.ID, nil, 0, seasonsPerPage, years)
	}
}

func (sa *SeasonsApp) renderLatest() func(ctx context.Context, message *tgbotapi.Message) error {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		years, err := sa.standings.Seasons(ctx)
		if err != nil {
			return sa.sendError(message.Chat.ID, 0, err)
		}
		if len(years) == 0 {
			_, err = sa.bot.Send(tgbotapi.NewMessage(message.Chat.ID, "No hay temporadas disponibles"))
			return err
		}
		return sa.renderStandings(years[0])(ctx, message)
	}
}

func (sa *SeasonsApp) renderStandings(year int) func(ctx context.Context, message *tgbotapi.Message) error {
	return func(ctx context.Context, message *tgbotapi.Message) error {
		report, err := sa.standings.Report(ctx, year)
		if err != nil {
			return sa.sendError(message.Chat.ID, year, err)
		}
		msg := tgbotapi.NewMessage(message.Chat.ID, StandingsText(report))
		msg.ParseMode = tgbotapi.ModeHTML
		_, err = sa.bot.Send(msg)
		return err
	}
}

// StandingsText is the chat message of a season report.
func StandingsText(r seasons.Report) string {
	if len(r.Standings) == 0 {
		return fmt.Sprintf("No hay resultados para la temporada %d", r.Season)
	}
	return fmt.Sprintf("Clasificación de pilotos %d\n%s", r.Season, render.Telegram(r.Standings, 0))
}

func (sa *SeasonsApp) sendError(chatId int64, year int, err error) error {
	var text string
	switch {
	case standings.IsDataSourceError(err) && year > 0:
		text = fmt.Sprintf("No se pudo consultar la temporada %d. Inténtalo más tarde.", year)
	case standings.IsDataSourceError(err):
		text = "No se pudo consultar las temporadas. Inténtalo más tarde."
	case errors.Is(err, standings.ErrInvalidArgument):
		text = fmt.Sprintf("Temporada no válida. Usa %s para ver las disponibles.", menuSeasons)
	default:
		text = "Algo ha ido mal. Inténtalo más tarde."
	}
	if _, sendErr := sa.bot.Send(tgbotapi.NewMessage(chatId, text)); sendErr != nil {
		return sendErr
	}
	return err
}
