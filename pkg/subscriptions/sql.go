package subscriptions

import (
	"database/sql"
)

func buildCreateSubscriptionsTable() string {
	return `CREATE TABLE IF NOT EXISTS subscriptions (
		userid TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		chatid TEXT NOT NULL,
		enabled INTEGER NOT NULL DEFAULT 0);`
}

func buildSelectUserCommand() (string, func(*sql.Rows) (bool, error)) {
	return `SELECT enabled FROM subscriptions WHERE userid = ?`, processSelectUserRows
}

func processSelectUserRows(rows *sql.Rows) (bool, error) {
	defer rows.Close()

	// only can be one row
	if rows.Next() {
		var enabled int
		if err := rows.Scan(&enabled); err != nil {
			return false, err
		}
		return enabled == 1, nil
	}
	return false, rows.Err()
}

func buildSelectSubscribersCommand() (string, func(*sql.Rows) ([]TelegramUser, error)) {
	return `SELECT userid, name, chatid FROM subscriptions WHERE enabled = 1 ORDER BY userid`, processSelectSubscribersRows
}

func processSelectSubscribersRows(rows *sql.Rows) ([]TelegramUser, error) {
	defer rows.Close()

	users := make([]TelegramUser, 0)
	for rows.Next() {
		var u TelegramUser
		if err := rows.Scan(&u.ID, &u.Name, &u.ChatID); err != nil {
			return users, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func buildUpsertSubscriptionCommand(user TelegramUser, enabled bool) (string, []any) {
	flag := 0
	if enabled {
		flag = 1
	}
	name := user.Name
	if name == "" {
		name = user.ID
	}
	return `INSERT INTO subscriptions (userid, name, chatid, enabled) VALUES (?, ?, ?, ?)
		ON CONFLICT(userid) DO UPDATE SET name = excluded.name, chatid = excluded.chatid, enabled = excluded.enabled`,
		[]any{user.ID, name, user.ChatID, flag}
}
