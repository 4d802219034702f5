package store

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"f1champsstandings/pkg/standings"
)

// SQLiteStore serves the dataset from a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens the database at path. ":memory:" opens a private
// in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening sqlite database %q", path)
	}
	// one connection keeps an in-memory database alive and serialises writes
	db.SetMaxOpenConns(1)

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Close()
}

// EnsureSchema creates the dataset tables if they do not exist.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range buildCreateTables() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return dataSourceError(opSchema, 0, errors.Wrap(err, "creating tables"))
		}
	}
	return nil
}

// Seasons lists the years with at least one race, latest first.
func (s *SQLiteStore) Seasons(ctx context.Context) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query, read := buildSelectSeasonsCommand()
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dataSourceError(opSeasons, 0, errors.Wrap(err, "querying races"))
	}
	years, err := read(rows)
	if err != nil {
		return nil, dataSourceError(opSeasons, 0, errors.Wrap(err, "reading races"))
	}
	return years, nil
}

// StandingRows returns every driver standings entry of the races of year.
func (s *SQLiteStore) StandingRows(ctx context.Context, year int) ([]standings.RaceStandingRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query, args, read := buildSelectStandingRowsCommand(year)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dataSourceError(opStandingRows, year, errors.Wrap(err, "querying driver standings"))
	}
	out, err := read(rows)
	if err != nil {
		return nil, dataSourceError(opStandingRows, year, errors.Wrap(err, "reading driver standings"))
	}
	return out, nil
}

// Load writes ds in a single transaction, replacing rows with the same keys.
func (s *SQLiteStore) Load(ctx context.Context, ds Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dataSourceError(opLoad, 0, errors.Wrap(err, "starting transaction"))
	}
	if err := load(ctx, tx, ds); err != nil {
		_ = tx.Rollback()
		return dataSourceError(opLoad, 0, err)
	}
	if err := tx.Commit(); err != nil {
		return dataSourceError(opLoad, 0, errors.Wrap(err, "committing"))
	}
	return nil
}

func load(ctx context.Context, tx *sql.Tx, ds Dataset) error {
	for _, r := range ds.Races {
		if _, err := tx.ExecContext(ctx, buildInsertRaceCommand(), r.RaceID, r.Year, r.Round, r.Name); err != nil {
			return errors.Wrapf(err, "inserting race %d", r.RaceID)
		}
	}
	for _, d := range ds.Drivers {
		if _, err := tx.ExecContext(ctx, buildInsertDriverCommand(), d.DriverID, d.Forename, d.Surname); err != nil {
			return errors.Wrapf(err, "inserting driver %d", d.DriverID)
		}
	}
	for _, st := range ds.Standings {
		var position sql.NullInt64
		if st.Position != nil {
			position = sql.NullInt64{Int64: int64(*st.Position), Valid: true}
		}
		_, err := tx.ExecContext(ctx, buildInsertStandingCommand(),
			st.DriverStandingsID, st.RaceID, st.DriverID, st.Points, position, st.Wins)
		if err != nil {
			return errors.Wrapf(err, "inserting driver standing %d", st.DriverStandingsID)
		}
	}
	return nil
}
