package store

import (
	"database/sql"

	"f1champsstandings/pkg/standings"
)

const standingColumns = `d.driver_id, d.forename, d.surname,
		COALESCE(ds.wins, 0) AS wins,
		COALESCE(ds.points, 0) AS points,
		COALESCE(ds.position, 0) AS position`

// Rows come in race order so that the last processed rank of a driver is
// the one recorded after the latest race of the season.
const standingOrder = "ra.round, ds.driver_standings_id"

func buildCreateTables() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS races (
		race_id INTEGER PRIMARY KEY,
		year INTEGER NOT NULL,
		round INTEGER NOT NULL,
		name TEXT);`,
		`CREATE TABLE IF NOT EXISTS drivers (
		driver_id INTEGER PRIMARY KEY,
		forename TEXT NOT NULL,
		surname TEXT NOT NULL);`,
		`CREATE TABLE IF NOT EXISTS driver_standings (
		driver_standings_id INTEGER PRIMARY KEY,
		race_id INTEGER NOT NULL REFERENCES races(race_id),
		driver_id INTEGER NOT NULL REFERENCES drivers(driver_id),
		points REAL NOT NULL DEFAULT 0,
		position INTEGER,
		wins INTEGER NOT NULL DEFAULT 0);`,
		`CREATE INDEX IF NOT EXISTS idx_races_year ON races(year);`,
	}
}

func buildSelectSeasonsCommand() (string, func(*sql.Rows) ([]int, error)) {
	return `SELECT DISTINCT year FROM races ORDER BY year DESC`, processSelectSeasonsRows
}

func processSelectSeasonsRows(rows *sql.Rows) ([]int, error) {
	defer rows.Close()

	years := make([]int, 0)
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return years, err
		}
		years = append(years, year)
	}
	return years, rows.Err()
}

func buildSelectStandingRowsCommand(year int) (string, []any, func(*sql.Rows) ([]standings.RaceStandingRow, error)) {
	query := `SELECT ` + standingColumns + `
		FROM driver_standings ds
		JOIN races ra ON ds.race_id = ra.race_id
		JOIN drivers d ON ds.driver_id = d.driver_id
		WHERE ra.year = ?
		ORDER BY ` + standingOrder
	return query, []any{year}, processSelectStandingRows
}

func processSelectStandingRows(rows *sql.Rows) ([]standings.RaceStandingRow, error) {
	defer rows.Close()

	out := make([]standings.RaceStandingRow, 0)
	for rows.Next() {
		var r standingRow
		err := rows.Scan(&r.DriverID, &r.Forename, &r.Surname, &r.Wins, &r.Points, &r.Position)
		if err != nil {
			return out, err
		}
		out = append(out, r.toRaceStandingRow())
	}
	return out, rows.Err()
}

func buildInsertRaceCommand() string {
	return `INSERT OR REPLACE INTO races (race_id, year, round, name) VALUES (?, ?, ?, ?)`
}

func buildInsertDriverCommand() string {
	return `INSERT OR REPLACE INTO drivers (driver_id, forename, surname) VALUES (?, ?, ?)`
}

func buildInsertStandingCommand() string {
	return `INSERT OR REPLACE INTO driver_standings (driver_standings_id, race_id, driver_id, points, position, wins) VALUES (?, ?, ?, ?, ?, ?)`
}
