// Package notification tells subscribed Telegram chats when the standings
// of the latest season change.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/nikoksr/notify"

	"f1champsstandings/pkg/pubsub"
	"f1champsstandings/pkg/render"
	"f1champsstandings/pkg/seasons"
	"f1champsstandings/pkg/subscriptions"
)

const (
	subject = "Clasificación actualizada:"
	topRows = 5
)

type Lister interface {
	ListSubscribers() ([]subscriptions.TelegramUser, error)
}

// NotifierFactory builds the notifier that delivers one message to chatIDs.
type NotifierFactory func(chatIDs []int64) notify.Notifier

// TelegramNotifier delivers through the bot client.
func TelegramNotifier(bot *tgbotapi.BotAPI) NotifierFactory {
	return func(chatIDs []int64) notify.Notifier {
		tg := &Telegram{}
		tg.SetClient(bot)
		tg.AddReceivers(chatIDs...)
		return notify.NewWithServices(tg)
	}
}

type Manager struct {
	ctx         context.Context
	lister      Lister
	newNotifier NotifierFactory
	pubsubMgr   *pubsub.PubSub[seasons.Report]
	updates     <-chan seasons.Report
	logger      *slog.Logger
}

// NewManager subscribes to the latest season updates straight away so no
// report published before Start runs is lost.
func NewManager(ctx context.Context, pubsubMgr *pubsub.PubSub[seasons.Report], lister Lister, newNotifier NotifierFactory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		ctx:         ctx,
		lister:      lister,
		newNotifier: newNotifier,
		pubsubMgr:   pubsubMgr,
		updates:     pubsubMgr.Subscribe(seasons.PubSubLatestTopic),
		logger:      logger,
	}
}

// Start blocks until exitChan is closed or the context is done.
func (m *Manager) Start(exitChan <-chan bool) {
	defer m.pubsubMgr.Unsubscribe(seasons.PubSubLatestTopic, m.updates)
	for {
		select {
		case <-exitChan:
			return
		case <-m.ctx.Done():
			return
		case r, ok := <-m.updates:
			if !ok {
				return
			}
			m.handleNotification(r)
		}
	}
}

func (m *Manager) handleNotification(r seasons.Report) {
	recipients, err := m.lister.ListSubscribers()
	if err != nil {
		m.logger.Error("listing subscribers", "error", err)
		return
	}
	m.logger.Info("sending standings notification", "season", r.Season, "recipients", len(recipients))
	if err = m.sendNotification(recipients, r); err != nil {
		m.logger.Error("notifying subscribers", "season", r.Season, "error", err)
	}
}

func (m *Manager) sendNotification(tusers []subscriptions.TelegramUser, r seasons.Report) error {
	if len(tusers) == 0 {
		return nil
	}

	chatIDs := make([]int64, 0, len(tusers))
	for _, tuser := range tusers {
		chatID, err := strconv.ParseInt(tuser.ChatID, 10, 64)
		if err != nil {
			m.logger.Warn("skipping subscriber with invalid chat id", "user", tuser.ID, "chat", tuser.ChatID)
			continue
		}
		chatIDs = append(chatIDs, chatID)
	}
	if len(chatIDs) == 0 {
		return nil
	}

	return m.newNotifier(chatIDs).Send(m.ctx, subject, Message(r))
}

// Message is the notification body for a refreshed report.
func Message(r seasons.Report) string {
	return fmt.Sprintf("Temporada %d\n%s", r.Season, render.Telegram(r.Standings, topRows))
}
