package store

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"f1champsstandings/pkg/standings"
)

// PostgresStore serves the dataset from the PostgreSQL formula1 database.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore connects to the database described by dsn.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, dataSourceError("connect", 0, errors.Wrap(err, "opening postgres connection"))
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// EnsureSchema migrates the dataset tables.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(&Race{}, &Driver{}, &DriverStanding{})
	if err != nil {
		return dataSourceError(opSchema, 0, errors.Wrap(err, "migrating tables"))
	}
	return nil
}

// Seasons lists the years with at least one race, latest first.
func (s *PostgresStore) Seasons(ctx context.Context) ([]int, error) {
	var years []int
	err := seasonsQuery(s.db.WithContext(ctx)).Pluck("year", &years).Error
	if err != nil {
		return nil, dataSourceError(opSeasons, 0, errors.Wrap(err, "querying races"))
	}
	return years, nil
}

// StandingRows returns every driver standings entry of the races of year.
func (s *PostgresStore) StandingRows(ctx context.Context, year int) ([]standings.RaceStandingRow, error) {
	var rows []standingRow
	err := standingRowsQuery(s.db.WithContext(ctx), year).Find(&rows).Error
	if err != nil {
		return nil, dataSourceError(opStandingRows, year, errors.Wrap(err, "querying driver standings"))
	}

	out := make([]standings.RaceStandingRow, len(rows))
	for i, r := range rows {
		out[i] = r.toRaceStandingRow()
	}
	return out, nil
}

// Load writes ds in a single transaction, replacing rows with the same keys.
func (s *PostgresStore) Load(ctx context.Context, ds Dataset) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ds.Races) > 0 {
			if err := tx.Save(&ds.Races).Error; err != nil {
				return errors.Wrap(err, "saving races")
			}
		}
		if len(ds.Drivers) > 0 {
			if err := tx.Save(&ds.Drivers).Error; err != nil {
				return errors.Wrap(err, "saving drivers")
			}
		}
		if len(ds.Standings) > 0 {
			if err := tx.Save(&ds.Standings).Error; err != nil {
				return errors.Wrap(err, "saving driver standings")
			}
		}
		return nil
	})
	if err != nil {
		return dataSourceError(opLoad, 0, err)
	}
	return nil
}

func seasonsQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&Race{}).Distinct("year").Order("year DESC")
}

func standingRowsQuery(db *gorm.DB, year int) *gorm.DB {
	return db.Table("driver_standings ds").
		Select(standingColumns).
		Joins("JOIN races ra ON ds.race_id = ra.race_id").
		Joins("JOIN drivers d ON ds.driver_id = d.driver_id").
		Where("ra.year = ?", year).
		Order(standingOrder)
}
