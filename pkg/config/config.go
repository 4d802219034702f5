// Package config reads the settings of the standings service from the
// environment and the command line.
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"f1champsstandings/pkg/render"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	defaultDSN             = "./formula1.db"
	defaultSubscriptionsDB = "./standings-bot.db"
	defaultAddress         = ":8080"
	defaultRefresh         = 60 * time.Minute
	defaultQueryTimeout    = 30 * time.Second
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type Config struct {
	Driver           string        `validate:"oneof=sqlite postgres"`
	DSN              string        `validate:"required"`
	SubscriptionsDB  string        `validate:"required"`
	TelegramToken    string
	WebserverAddress string        `validate:"required,hostname_port"`
	RefreshInterval  time.Duration `validate:"min=1s"`
	QueryTimeout     time.Duration `validate:"min=1s"`
	LogLevel         string        `validate:"oneof=debug info warn error"`

	Year        int    `validate:"gte=0"`
	Format      string `validate:"oneof=table markdown csv html json"`
	ListSeasons bool
	Serve       bool
	Import      string
}

func defaults() Config {
	return Config{
		Driver:           DriverSQLite,
		DSN:              defaultDSN,
		SubscriptionsDB:  defaultSubscriptionsDB,
		WebserverAddress: defaultAddress,
		RefreshInterval:  defaultRefresh,
		QueryTimeout:     defaultQueryTimeout,
		LogLevel:         "info",
		Format:           "table",
	}
}

// Load builds the configuration from getenv and then args, which win over
// the environment.
func Load(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	cfg := defaults()
	if err := cfg.fromEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("f1champsstandings", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Driver, "driver", cfg.Driver, "standings database driver: sqlite or postgres")
	fs.StringVar(&cfg.DSN, "dsn", cfg.DSN, "standings database file (sqlite) or connection string (postgres)")
	fs.IntVar(&cfg.Year, "year", cfg.Year, "season to report, latest when 0")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "report format: "+render.FormatList())
	fs.BoolVar(&cfg.ListSeasons, "seasons", cfg.ListSeasons, "list the available seasons")
	fs.BoolVar(&cfg.Serve, "serve", cfg.Serve, "run the HTTP API, the Telegram bot and the notifier")
	fs.StringVar(&cfg.Import, "import", cfg.Import, "load a JSON dataset of races, drivers and driver standings")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.Driver = strings.ToLower(cfg.Driver)
	cfg.Format = strings.ToLower(cfg.Format)
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromOS loads the configuration of the running process.
func FromOS() (Config, error) {
	return Load(os.Args[1:], os.Getenv, os.Stderr)
}

func (c *Config) fromEnv(getenv func(string) string) error {
	if v := getenv("STANDINGS_DRIVER"); v != "" {
		c.Driver = v
	}
	if v := getenv("STANDINGS_DSN"); v != "" {
		c.DSN = v
	}
	if v := getenv("SUBSCRIPTIONS_DB"); v != "" {
		c.SubscriptionsDB = v
	}
	c.TelegramToken = getenv("TELEGRAM_TOKEN")
	if v := getenv("WEBSERVER_ADDRESS"); v != "" {
		c.WebserverAddress = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	var err error
	if c.RefreshInterval, err = durationEnv(getenv, "REFRESH_INTERVAL", c.RefreshInterval); err != nil {
		return err
	}
	if c.QueryTimeout, err = durationEnv(getenv, "QUERY_TIMEOUT", c.QueryTimeout); err != nil {
		return err
	}
	return nil
}

func durationEnv(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	v := getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

// BotEnabled reports whether a Telegram token was configured.
func (c Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger is the process logger: text records on w at the configured level.
func (c Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.SlogLevel()}))
}
