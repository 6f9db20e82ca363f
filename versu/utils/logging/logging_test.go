package logging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggerCreatesLogFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	InitLogger(dir)
	t.Cleanup(func() {
		AppLogger, RequestLogger, TimerLogger, ErrorLogger = zap.NewNop(), zap.NewNop(), zap.NewNop(), zap.NewNop()
	})

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-1")
	LogDuration(ctx, "TestInitLoggerCreatesLogFiles")()
	AppLogger.Info("hello")
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, "timer.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"func":"TestInitLoggerCreatesLogFiles"`)
	assert.Contains(t, string(data), `"request_id":"req-1"`)

	_, err = os.Stat(filepath.Join(dir, "app.log"))
	assert.NoError(t, err)
}

func TestLoggersDefaultToNop(t *testing.T) {
	assert.NotPanics(t, func() {
		ErrorLogger.Error("not initialised")
		LogDuration(context.Background(), "noop")()
	})
}

func TestFatalFlushesBeforeExit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	InitLogger(dir)
	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() {
		exit = os.Exit
		AppLogger, RequestLogger, TimerLogger, ErrorLogger = zap.NewNop(), zap.NewNop(), zap.NewNop(), zap.NewNop()
	})

	Fatal("database connection error", zap.String("host", "db"))

	assert.Equal(t, 1, code)
	data, err := os.ReadFile(filepath.Join(dir, "error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"database connection error"`)
	assert.Contains(t, string(data), `"host":"db"`)
}
