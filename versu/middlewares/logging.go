package middlewares

import (
	"net/http"
	"time"

	"versu/versu/services/metrics"
	"versu/versu/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger writes one line per request to request.log and records HTTP metrics.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		latency := time.Since(start)

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("latency", latency),
			zap.String("client_ip", r.RemoteAddr),
			zap.String("user_agent", r.UserAgent()),
		}
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			fields = append(fields, zap.String("request_id", reqID))
		}
		switch {
		case status >= 500:
			logging.RequestLogger.Error("request", fields...)
		case status >= 400:
			logging.RequestLogger.Warn("request", fields...)
		default:
			logging.RequestLogger.Info("request", fields...)
		}

		metrics.RecordRequest(r.Method, routePattern(r), status, latency.Seconds())
	})
}

// routePattern keeps the metrics label cardinality bounded by using the chi pattern.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
