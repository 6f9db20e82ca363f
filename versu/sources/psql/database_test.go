package psql

import (
	"context"
	"errors"
	"testing"
	"time"

	"versu/versu/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConnectWithRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	db, err := connectWithRetry(context.Background(), 5, time.Millisecond, func() (*gorm.DB, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection refused")
		}
		return &gorm.DB{}, nil
	})
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Equal(t, 3, calls)
}

func TestConnectWithRetryGivesUp(t *testing.T) {
	calls := 0
	_, err := connectWithRetry(context.Background(), 3, time.Millisecond, func() (*gorm.DB, error) {
		calls++
		return nil, errors.New("connection refused")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestConnectWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := connectWithRetry(ctx, 10, time.Hour, func() (*gorm.DB, error) {
		calls++
		cancel()
		return nil, errors.New("connection refused")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{DBHost: "db", DBPort: "5432", DBUser: "versu", DBPassword: "secret", DBName: "versu", DBSSLMode: "disable"})
	assert.Equal(t, "host=db port=5432 user=versu password=secret dbname=versu sslmode=disable", dsn)
}
