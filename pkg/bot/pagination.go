package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func maxPages(items, count int) int {
	if count <= 0 {
		return 0
	}
	return (items + count - 1) / count
}

func (sa *SeasonsApp) sendSeasonsPage(chatId int64, messageId *int, currentPage, count int, years []int) error {
	text, keyboard := SeasonsTextMarkup(currentPage, count, years)

	var cfg tgbotapi.Chattable
	if messageId == nil {
		msg := tgbotapi.NewMessage(chatId, text)
		if len(keyboard.InlineKeyboard) > 0 {
			msg.ReplyMarkup = keyboard
		}
		cfg = msg
	} else {
		msg := tgbotapi.NewEditMessageText(chatId, *messageId, text)
		if len(keyboard.InlineKeyboard) > 0 {
			msg.ReplyMarkup = &keyboard
		}
		cfg = msg
	}

	_, err := sa.bot.Send(cfg)
	return err
}

// SeasonsTextMarkup renders one page of the season list with its
// navigation buttons.
func SeasonsTextMarkup(currentPage, count int, years []int) (text string, markup tgbotapi.InlineKeyboardMarkup) {
	pages := maxPages(len(years), count)
	if currentPage < 0 {
		currentPage = 0
	}
	from, to := len(years), len(years)
	if currentPage < pages {
		from = currentPage * count
		to = min(from+count, len(years))
	}

	var lines []string
	for _, y := range years[from:to] {
		lines = append(lines, fmt.Sprintf(" ▸ Temporada %d ➡ /%d", y, y))
	}
	text = fmt.Sprintf("Temporadas (%d/%d):\n\n%s", currentPage+1, pages, strings.Join(lines, "\n"))

	var buttons []tgbotapi.InlineKeyboardButton
	if currentPage > 0 {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData("Anterior", fmt.Sprintf("%s:prev:%d:%d", pagerPrefix, currentPage, count)))
	}
	if currentPage < pages-1 {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData("Siguiente", fmt.Sprintf("%s:next:%d:%d", pagerPrefix, currentPage, count)))
	}

	if len(buttons) > 0 {
		markup = tgbotapi.NewInlineKeyboardMarkup(buttons)
	}
	return
}

func (sa *SeasonsApp) handleNavigationCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) error {
	data := strings.Split(query.Data, ":")
	if len(data) != 4 {
		return fmt.Errorf("malformed pager data %q", query.Data)
	}
	pagerType := data[1]
	currentPage, err := strconv.Atoi(data[2])
	if err != nil {
		return fmt.Errorf("malformed pager page %q: %w", query.Data, err)
	}
	if currentPage < 0 {
		return fmt.Errorf("pager page out of range %q", query.Data)
	}
	itemsPerPage, err := strconv.Atoi(data[3])
	if err != nil || itemsPerPage <= 0 {
		return fmt.Errorf("malformed pager size %q", query.Data)
	}

	if _, err := sa.bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		return err
	}

	years, err := sa.standings.Seasons(ctx)
	if err != nil {
		return sa.sendError(query.Message.Chat.ID, 0, err)
	}
	pages := maxPages(len(years), itemsPerPage)
	messageId := query.Message.MessageID

	switch pagerType {
	case "next":
		if nextPage := currentPage + 1; nextPage < pages {
			return sa.sendSeasonsPage(query.Message.Chat.ID, &messageId, nextPage, itemsPerPage, years)
		}
	case "prev":
		if previousPage := currentPage - 1; previousPage >= 0 && previousPage < pages {
			return sa.sendSeasonsPage(query.Message.Chat.ID, &messageId, previousPage, itemsPerPage, years)
		}
	}
	return nil
}
