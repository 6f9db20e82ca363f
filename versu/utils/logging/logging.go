package logging

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// No-op until InitLogger runs, so packages can log from tests.
var (
	AppLogger     = zap.NewNop()
	RequestLogger = zap.NewNop()
	TimerLogger   = zap.NewNop()
	ErrorLogger   = zap.NewNop()
)

// ensureLogsDir makes sure the logs folder exists
func ensureLogsDir(dir string) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		panic("Failed to create logs directory: " + err.Error())
	}
}

func rotating(dir, name string, maxSize, maxAge int) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename: filepath.Join(dir, name), MaxSize: maxSize, MaxAge: maxAge, Compress: true,
	})
}

func InitLogger(dir string) {
	ensureLogsDir(dir)
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	// app.log, mirrored to stdout for container logs
	appCore := zapcore.NewTee(
		zapcore.NewCore(encoder, rotating(dir, "app.log", 100, 28), zap.InfoLevel),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.InfoLevel),
	)
	AppLogger = zap.New(appCore)

	requestCore := zapcore.NewCore(encoder, rotating(dir, "request.log", 50, 7), zap.InfoLevel)
	RequestLogger = zap.New(requestCore)

	timerCore := zapcore.NewCore(encoder, rotating(dir, "timer.log", 50, 7), zap.InfoLevel)
	TimerLogger = zap.New(timerCore)

	errorCore := zapcore.NewTee(
		zapcore.NewCore(encoder, rotating(dir, "error.log", 100, 30), zap.ErrorLevel),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), zap.ErrorLevel),
	)
	ErrorLogger = zap.New(errorCore, zap.AddCaller())
}

var exit = os.Exit

// Fatal logs to error.log, flushes every logger and exits with status 1. Deferred calls
// in the caller do not run.
func Fatal(msg string, fields ...zap.Field) {
	ErrorLogger.Error(msg, fields...)
	Sync()
	exit(1)
}

// Sync flushes every logger. Call it before the process exits.
func Sync() {
	for _, l := range []*zap.Logger{AppLogger, RequestLogger, TimerLogger, ErrorLogger} {
		_ = l.Sync()
	}
}

// LogDuration lets you do: defer logging.LogDuration(ctx, "FuncName")()
func LogDuration(ctx context.Context, name string) func() {
	start := time.Now()
	reqID := middleware.GetReqID(ctx)

	return func() {
		fields := []zap.Field{
			zap.String("func", name),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		}
		if reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}

		// write ONLY to timer.log
		TimerLogger.Info("Function timed", fields...)
	}
}
