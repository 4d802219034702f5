// Package store reads the race-results dataset (races, drivers and the
// driver standings recorded after each race) from SQLite or PostgreSQL.
package store

import (
	"f1champsstandings/pkg/standings"
)

const (
	opSeasons      = "seasons"
	opStandingRows = "standing rows"
	opSchema       = "schema"
	opLoad         = "load"
)

// standingRow is one row of the standings join before it becomes a
// standings.RaceStandingRow. Points is read as a float because the dataset
// stores half points.
type standingRow struct {
	DriverID int64
	Forename string
	Surname  string
	Wins     int
	Points   float64
	Position int
}

// toRaceStandingRow truncates points to whole points.
func (r standingRow) toRaceStandingRow() standings.RaceStandingRow {
	return standings.RaceStandingRow{
		DriverID:   standings.DriverID(r.DriverID),
		DriverName: r.Forename + " " + r.Surname,
		Wins:       r.Wins,
		Points:     int(r.Points),
		Position:   r.Position,
	}
}

func dataSourceError(op string, season int, err error) error {
	return &standings.DataSourceError{Op: op, Season: season, Err: err}
}

// Dataset is a set of races, drivers and standings to load into a store.
type Dataset struct {
	Races     []Race           `json:"races"`
	Drivers   []Driver         `json:"drivers"`
	Standings []DriverStanding `json:"driver_standings"`
}

// Race is a row of the races table.
type Race struct {
	RaceID int64  `json:"race_id" gorm:"column:race_id;primaryKey"`
	Year   int    `json:"year" gorm:"column:year;not null;index"`
	Round  int    `json:"round" gorm:"column:round;not null"`
	Name   string `json:"name" gorm:"column:name;size:255"`
}

func (Race) TableName() string { return "races" }

// Driver is a row of the drivers table.
type Driver struct {
	DriverID int64  `json:"driver_id" gorm:"column:driver_id;primaryKey"`
	Forename string `json:"forename" gorm:"column:forename;size:255;not null"`
	Surname  string `json:"surname" gorm:"column:surname;size:255;not null"`
}

func (Driver) TableName() string { return "drivers" }

// DriverStanding is a row of the driver_standings table. A nil Position is
// a standings entry without a rank.
type DriverStanding struct {
	DriverStandingsID int64   `json:"driver_standings_id" gorm:"column:driver_standings_id;primaryKey"`
	RaceID            int64   `json:"race_id" gorm:"column:race_id;not null;index"`
	DriverID          int64   `json:"driver_id" gorm:"column:driver_id;not null;index"`
	Points            float64 `json:"points" gorm:"column:points;not null;default:0"`
	Position          *int    `json:"position" gorm:"column:position"`
	Wins              int     `json:"wins" gorm:"column:wins;not null;default:0"`
}

func (DriverStanding) TableName() string { return "driver_standings" }
