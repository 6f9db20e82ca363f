package psql

import (
	"context"
	"fmt"
	"time"

	"versu/versu/config"
	"versu/versu/sources/psql/models"
	"versu/versu/utils/logging"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Database struct {
	DB *gorm.DB
}

func DSN(cfg config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBSSLMode,
	)
}

// NewDatabase opens the connection, retrying a fixed number of times with a fixed
// delay, and migrates the schema.
func NewDatabase(ctx context.Context, cfg config.Config) (*Database, error) {
	db, err := connectWithRetry(ctx, cfg.DBConnectRetries, cfg.DBConnectDelay, func() (*gorm.DB, error) {
		return open(ctx, postgres.Open(DSN(cfg)))
	})
	if err != nil {
		return nil, err
	}

	var currentDB string
	_ = db.WithContext(ctx).Raw("SELECT current_database()").Scan(&currentDB).Error
	logging.AppLogger.Info("connected to database", zap.String("database", currentDB))

	if err := Migrate(ctx, db); err != nil {
		return nil, err
	}
	return &Database{DB: db}, nil
}

func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto-migrate: %w", err)
	}
	return nil
}

func open(ctx context.Context, dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

func connectWithRetry(ctx context.Context, attempts int, delay time.Duration, connect func() (*gorm.DB, error)) (*gorm.DB, error) {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := connect()
		if err == nil {
			return db, nil
		}
		lastErr = err
		logging.AppLogger.Warn("database not ready",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempts, lastErr)
}

func (db *Database) Close() {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return
	}
	sqlDB.Close()
}
