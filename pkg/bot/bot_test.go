package bot

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"f1champsstandings/pkg/seasons"
	"f1champsstandings/pkg/standings"
	"f1champsstandings/pkg/subscriptions"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeSender) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	msg, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok, "last sent is %T", f.sent[len(f.sent)-1])
	return msg
}

type fakeStandings struct {
	years []int
	err   error
}

func (f *fakeStandings) Seasons(ctx context.Context) ([]int, error) {
	return f.years, f.err
}

func (f *fakeStandings) Report(ctx context.Context, year int) (seasons.Report, error) {
	if f.err != nil {
		return seasons.Report{}, f.err
	}
	if year != 2023 {
		return seasons.Report{Season: year, Standings: standings.RankedReport{}}, nil
	}
	return seasons.Report{
		Season: 2023,
		Standings: standings.RankedReport{
			{DriverID: 1, DriverName: "Max Verstappen", TotalWins: 19, TotalPoints: 575, Rank: 1},
			{DriverID: 2, DriverName: "Sergio Pérez", TotalWins: 2, TotalPoints: 285, Rank: 2},
		},
	}, nil
}

type fakeSubscriber struct {
	enabled map[string]bool
	users   []subscriptions.TelegramUser
	err     error
}

func (f *fakeSubscriber) Toggle(user subscriptions.TelegramUser) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.users = append(f.users, user)
	f.enabled[user.ID] = !f.enabled[user.ID]
	return f.enabled[user.ID], nil
}

func allYears() []int {
	years := make([]int, 0, 25)
	for y := 2023; y > 1998; y-- {
		years = append(years, y)
	}
	return years
}

type testBot struct {
	*Bot
	sender     *fakeSender
	standings  *fakeStandings
	subscriber *fakeSubscriber
}

func newTestBot() testBot {
	sender := &fakeSender{}
	st := &fakeStandings{years: allYears()}
	sub := &fakeSubscriber{enabled: map[string]bool{}}
	return testBot{
		Bot:        New(sender, NewMainApp(sender, st, sub), nil),
		sender:     sender,
		standings:  st,
		subscriber: sub,
	}
}

func textUpdate(text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: 7,
			From:      &tgbotapi.User{ID: 42, UserName: "checo"},
			Chat:      &tgbotapi.Chat{ID: 4242},
			Text:      text,
		},
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/start", "/start", true},
		{"/2023@F1ChampsBot", "/2023", true},
		{"/Temporadas extra", "/temporadas", true},
		{"Temporadas", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseCommand(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStart(t *testing.T) {
	b := newTestBot()
	b.HandleUpdate(context.Background(), textUpdate("/start"))

	msg := b.sender.lastMessage(t)
	assert.Equal(t, int64(4242), msg.ChatID)
	assert.Contains(t, msg.Text, menuSeasons)
	assert.Contains(t, msg.Text, menuAlerts)
	assert.Equal(t, menuKeyboard, msg.ReplyMarkup)
}

func TestYearCommand(t *testing.T) {
	b := newTestBot()
	b.HandleUpdate(context.Background(), textUpdate("/2023"))

	msg := b.sender.lastMessage(t)
	assert.Equal(t, tgbotapi.ModeHTML, msg.ParseMode)
	assert.Contains(t, msg.Text, "Clasificación de pilotos 2023")
	assert.Contains(t, msg.Text, "VER")
	assert.Contains(t, msg.Text, "575")
}

func TestYearCommandEmptySeason(t *testing.T) {
	b := newTestBot()
	b.HandleUpdate(context.Background(), textUpdate("/1949"))

	assert.Equal(t, "No hay resultados para la temporada 1949", b.sender.lastMessage(t).Text)
}

func TestYearCommandDataSourceError(t *testing.T) {
	b := newTestBot()
	b.standings.err = &standings.DataSourceError{Op: "standing rows", Season: 2023, Err: errors.New("refused")}
	b.HandleUpdate(context.Background(), textUpdate("/2023"))

	assert.Contains(t, b.sender.lastMessage(t).Text, "No se pudo consultar la temporada 2023")
}

func TestLatestButton(t *testing.T) {
	b := newTestBot()
	b.HandleUpdate(context.Background(), textUpdate(buttonLatest))

	assert.Contains(t, b.sender.lastMessage(t).Text, "Clasificación de pilotos 2023")
}

func TestUnknownCommand(t *testing.T) {
	b := newTestBot()
	b.HandleUpdate(context.Background(), textUpdate("/circuitos"))

	assert.Contains(t, b.sender.lastMessage(t).Text, "No conozco el comando /circuitos")
}

func TestUnknownButtonIsIgnored(t *testing.T) {
	b := newTestBot()
	b.HandleUpdate(context.Background(), textUpdate("hola"))

	assert.Empty(t, b.sender.sent)
}

func TestSeasonsCommand(t *testing.T) {
	b := newTestBot()
	b.HandleUpdate(context.Background(), textUpdate("/temporadas"))

	msg := b.sender.lastMessage(t)
	assert.Contains(t, msg.Text, "Temporadas (1/3)")
	assert.Contains(t, msg.Text, "➡ /2023")
	assert.NotContains(t, msg.Text, "/2013")
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 1)
	require.Len(t, markup.InlineKeyboard[0], 1)
	assert.Equal(t, "Siguiente", markup.InlineKeyboard[0][0].Text)
}

func TestSeasonsCommandNoSeasons(t *testing.T) {
	b := newTestBot()
	b.standings.years = []int{}
	b.HandleUpdate(context.Background(), textUpdate("/temporadas"))

	assert.Equal(t, "No hay temporadas disponibles", b.sender.lastMessage(t).Text)
}

func TestSeasonsTextMarkup(t *testing.T) {
	years := allYears()

	tests := []struct {
		name    string
		page    int
		buttons []string
		first   string
	}{
		{"first page", 0, []string{"Siguiente"}, "/2023"},
		{"middle page", 1, []string{"Anterior", "Siguiente"}, "/2013"},
		{"last page", 2, []string{"Anterior"}, "/2003"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, markup := SeasonsTextMarkup(tt.page, seasonsPerPage, years)
			assert.Contains(t, text, tt.first)

			var got []string
			for _, row := range markup.InlineKeyboard {
				for _, b := range row {
					got = append(got, b.Text)
				}
			}
			assert.Equal(t, tt.buttons, got)
		})
	}

	text, markup := SeasonsTextMarkup(0, seasonsPerPage, []int{2023, 2022})
	assert.Contains(t, text, "Temporadas (1/1)")
	assert.Empty(t, markup.InlineKeyboard)

	text, _ = SeasonsTextMarkup(9, seasonsPerPage, years)
	assert.NotContains(t, text, "➡")
}

func TestNavigationCallback(t *testing.T) {
	b := newTestBot()
	data := "pager:next:0:10"
	b.HandleUpdate(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			Data:    data,
			Message: &tgbotapi.Message{MessageID: 9, Chat: &tgbotapi.Chat{ID: 4242}},
		},
	})

	require.Len(t, b.sender.requests, 1)
	require.Len(t, b.sender.sent, 1)
	edit, ok := b.sender.sent[0].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Equal(t, 9, edit.MessageID)
	assert.Contains(t, edit.Text, "Temporadas (2/3)")
	assert.Contains(t, edit.Text, "/2013")
}

func TestNavigationCallbackPastLastPage(t *testing.T) {
	b := newTestBot()
	b.HandleUpdate(context.Background(), tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb",
			Data:    "pager:next:2:10",
			Message: &tgbotapi.Message{MessageID: 9, Chat: &tgbotapi.Chat{ID: 4242}},
		},
	})

	assert.Empty(t, b.sender.sent)
}

func TestNavigationCallbackOutOfRangePage(t *testing.T) {
	for _, data := range []string{"pager:next:-5:10", "pager:prev:-1:10", "pager:next:9223372036854775806:10"} {
		t.Run(data, func(t *testing.T) {
			b := newTestBot()
			assert.NotPanics(t, func() {
				b.HandleUpdate(context.Background(), tgbotapi.Update{
					CallbackQuery: &tgbotapi.CallbackQuery{
						ID:      "cb",
						Data:    data,
						Message: &tgbotapi.Message{MessageID: 9, Chat: &tgbotapi.Chat{ID: 4242}},
					},
				})
			})
			assert.Empty(t, b.sender.sent)
		})
	}
}

func TestSeasonsTextMarkupClampsPage(t *testing.T) {
	years := []int{2023, 2022, 2021}
	assert.NotPanics(t, func() {
		text, _ := SeasonsTextMarkup(-4, 2, years)
		assert.Contains(t, text, "/2023")
	})
	assert.NotPanics(t, func() {
		text, _ := SeasonsTextMarkup(1<<62, 4, years)
		assert.NotContains(t, text, "➡")
	})
}

func TestAlertsToggle(t *testing.T) {
	b := newTestBot()

	b.HandleUpdate(context.Background(), textUpdate("/avisos"))
	assert.Equal(t, AlertsText(true), b.sender.lastMessage(t).Text)

	b.HandleUpdate(context.Background(), textUpdate(buttonAlerts))
	assert.Equal(t, AlertsText(false), b.sender.lastMessage(t).Text)

	require.Len(t, b.subscriber.users, 2)
	assert.Equal(t, subscriptions.TelegramUser{ID: "42", Name: "checo", ChatID: "4242"}, b.subscriber.users[0])
}

func TestAlertsToggleError(t *testing.T) {
	b := newTestBot()
	b.subscriber.err = errors.New("db locked")

	b.HandleUpdate(context.Background(), textUpdate("/avisos"))
	assert.Contains(t, b.sender.lastMessage(t).Text, "No se pudo cambiar la suscripción")
}

func TestReceiveUpdatesStopsOnClose(t *testing.T) {
	b := newTestBot()
	updates := make(chan tgbotapi.Update, 1)
	updates <- textUpdate("/menu")
	close(updates)

	b.ReceiveUpdates(context.Background(), updates)
	assert.Equal(t, "Menú del bot.\n\n", b.sender.lastMessage(t).Text)
}
