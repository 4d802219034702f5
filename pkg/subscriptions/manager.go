// Package subscriptions stores which Telegram chats want to hear about
// standings changes of the latest season.
package subscriptions

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

const DbName = "./standings-bot.db"

type TelegramUser struct {
	ID     string
	Name   string
	ChatID string
}

func (u TelegramUser) String() string {
	return fmt.Sprintf("%s (%s)", u.Name, u.ID)
}

// Symbol is the bell shown next to the subscription status.
func Symbol(enabled bool) string {
	if enabled {
		return "🔔"
	}
	return "🔕"
}

type Manager struct {
	db *sql.DB
	mu sync.Mutex
}

// NewManager opens (or creates) the subscriptions database at path.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		path = DbName
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening subscriptions database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(buildCreateSubscriptionsTable()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init subscriptions database: %w", err)
	}

	return &Manager{db: db}, nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.db.Close()
}

// Toggle flips the subscription of a user and returns the new status.
func (m *Manager) Toggle(user TelegramUser) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	enabled, err := m.isSubscribed(user.ID)
	if err != nil {
		return false, err
	}

	query, args := buildUpsertSubscriptionCommand(user, !enabled)
	if _, err = m.db.Exec(query, args...); err != nil {
		return enabled, fmt.Errorf("updating subscription of %s: %w", user, err)
	}
	return !enabled, nil
}

func (m *Manager) IsSubscribed(userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.isSubscribed(userID)
}

// ListSubscribers returns every user with notifications enabled.
func (m *Manager) ListSubscribers() ([]TelegramUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, read := buildSelectSubscribersCommand()
	rows, err := m.db.Query(query)
	if err != nil {
		return []TelegramUser{}, fmt.Errorf("listing subscribers: %w", err)
	}
	return read(rows)
}

func (m *Manager) isSubscribed(userID string) (bool, error) {
	query, read := buildSelectUserCommand()
	rows, err := m.db.Query(query, userID)
	if err != nil {
		return false, fmt.Errorf("reading subscription of %s: %w", userID, err)
	}
	return read(rows)
}
