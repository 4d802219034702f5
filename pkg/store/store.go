package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"f1champsstandings/pkg/standings"
)

// Store is a race-results database the standings are computed from.
type Store interface {
	EnsureSchema(ctx context.Context) error
	Seasons(ctx context.Context) ([]int, error)
	StandingRows(ctx context.Context, year int) ([]standings.RaceStandingRow, error)
	Load(ctx context.Context, ds Dataset) error
	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

// Open connects to the store of the given driver: "sqlite" takes a file
// path, "postgres" a connection string.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		s, err := NewSQLiteStore(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres":
		s, err := NewPostgresStore(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q: %w", driver, standings.ErrInvalidArgument)
	}
}

// ReadDataset decodes a JSON dataset and checks that every standings entry
// points at a known race and driver.
func ReadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, errors.Wrap(err, "decoding dataset")
	}

	races := make(map[int64]bool, len(ds.Races))
	for _, race := range ds.Races {
		races[race.RaceID] = true
	}
	drivers := make(map[int64]bool, len(ds.Drivers))
	for _, d := range ds.Drivers {
		drivers[d.DriverID] = true
	}
	for _, s := range ds.Standings {
		if !races[s.RaceID] {
			return Dataset{}, errors.Errorf("driver standing %d: unknown race %d", s.DriverStandingsID, s.RaceID)
		}
		if !drivers[s.DriverID] {
			return Dataset{}, errors.Errorf("driver standing %d: unknown driver %d", s.DriverStandingsID, s.DriverID)
		}
	}
	return ds, nil
}
