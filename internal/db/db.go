package db

import (
	"errors"
	"fmt"
	stdlog "log"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var ErrEmptyDSN = errors.New("DATABASE_URL is empty")

// Connect opens a gorm connection to Postgres. SQL is logged through zl.
func Connect(dsn string, zl zerolog.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	// Surface slow queries; individual statements only at debug level.
	level := logger.Warn
	if zl.GetLevel() <= zerolog.DebugLevel {
		level = logger.Info
	}
	lg := logger.New(
		stdlog.New(zl.With().Str("component", "gorm").Logger(), "", 0),
		logger.Config{
			SlowThreshold:             100 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: lg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	zl.Info().Msg("Connected to database")
	return db, nil
}

// Close releases the pool behind d.
func Close(d *gorm.DB) error {
	sqlDB, err := d.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
