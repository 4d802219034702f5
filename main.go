package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"f1champsstandings/pkg/bot"
	"f1champsstandings/pkg/config"
	"f1champsstandings/pkg/notification"
	"f1champsstandings/pkg/pubsub"
	"f1champsstandings/pkg/render"
	"f1champsstandings/pkg/seasons"
	"f1champsstandings/pkg/store"
	"f1champsstandings/pkg/subscriptions"
	"f1champsstandings/pkg/webserver"
)

func main() {
	cfg, err := config.FromOS()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := cfg.Logger(os.Stderr)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("f1champsstandings failed", "error", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	st, err := store.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return err
	}
	defer st.Close()

	if cfg.Import != "" {
		if err := importDataset(ctx, st, cfg.Import, logger); err != nil {
			return err
		}
		if !cfg.Serve {
			return nil
		}
	}

	pubsubMgr := pubsub.NewPubSub[seasons.Report](0)
	defer pubsubMgr.Close()
	seasonsMgr := seasons.NewManager(st, pubsubMgr,
		seasons.WithLogger(logger),
		seasons.WithQueryTimeout(cfg.QueryTimeout))

	switch {
	case cfg.Serve:
		return serve(ctx, cfg, seasonsMgr, pubsubMgr, logger)
	case cfg.ListSeasons:
		years, err := seasonsMgr.Seasons(ctx)
		if err != nil {
			return err
		}
		return render.Seasons(os.Stdout, years)
	default:
		return printReport(ctx, cfg, seasonsMgr)
	}
}

func importDataset(ctx context.Context, st store.Store, path string, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ds, err := store.ReadDataset(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := st.Load(ctx, ds); err != nil {
		return err
	}
	logger.Info("dataset imported",
		"races", len(ds.Races),
		"drivers", len(ds.Drivers),
		"standings", len(ds.Standings))
	return nil
}

func printReport(ctx context.Context, cfg config.Config, seasonsMgr *seasons.Manager) error {
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	year := cfg.Year
	if year == 0 {
		if year, err = seasonsMgr.LatestSeason(ctx); err != nil {
			return err
		}
	}
	report, err := seasonsMgr.Report(ctx, year)
	if err != nil {
		return err
	}
	return render.Report(os.Stdout, report, format)
}

func serve(ctx context.Context, cfg config.Config, seasonsMgr *seasons.Manager, pubsubMgr *pubsub.PubSub[seasons.Report], logger *slog.Logger) error {
	exitChan := make(chan bool)
	defer close(exitChan)

	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()
	seasonsMgr.Sync(ctx, ticker, exitChan)

	if cfg.BotEnabled() {
		stop, err := startBot(ctx, cfg, seasonsMgr, pubsubMgr, exitChan, logger)
		if err != nil {
			return err
		}
		defer stop()
	} else {
		logger.Warn("TELEGRAM_TOKEN not set, the Telegram bot and notifications are disabled")
	}

	webserverMgr := webserver.NewManager(cfg.WebserverAddress, seasonsMgr, pubsubMgr, logger)
	webserverMgr.Debug()
	return webserverMgr.Serve(ctx)
}

func startBot(ctx context.Context, cfg config.Config, seasonsMgr *seasons.Manager, pubsubMgr *pubsub.PubSub[seasons.Report], exitChan <-chan bool, logger *slog.Logger) (func(), error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("connecting to telegram: %w", err)
	}
	// Set this to true to log all interactions with telegram servers
	api.Debug = false

	subscriptionsMgr, err := subscriptions.NewManager(cfg.SubscriptionsDB)
	if err != nil {
		return nil, err
	}

	notificationMgr := notification.NewManager(ctx, pubsubMgr, subscriptionsMgr, notification.TelegramNotifier(api), logger)
	go notificationMgr.Start(exitChan)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := api.GetUpdatesChan(u)

	b := bot.New(api, bot.NewMainApp(api, seasonsMgr, subscriptionsMgr), logger)
	go b.ReceiveUpdates(ctx, updates)
	logger.Info("telegram bot listening for updates", "account", api.Self.UserName)

	return func() {
		api.StopReceivingUpdates()
		subscriptionsMgr.Close()
	}, nil
}
