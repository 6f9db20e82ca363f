package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"versu/versu/utils/logging"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHealthCheck(t *testing.T) {
	hc := NewHealthController()
	hc.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	hc.HealthCheck(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"] != "OK" {
		t.Errorf("expected status OK, got %v", body["status"])
	}
	if body["timestamp"] != "2026-01-02T03:04:05Z" {
		t.Errorf("unexpected timestamp %v", body["timestamp"])
	}

	if rr.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type application/json, got %v", rr.Header().Get("Content-Type"))
	}
}

func TestInfoListsEndpoints(t *testing.T) {
	rr := httptest.NewRecorder()
	NewHealthController().Info(rr, httptest.NewRequest("GET", "/api/info", nil))

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Version   string            `json:"version"`
			Endpoints map[string]string `json:"endpoints"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !body.Success || body.Data.Version != APIVersion {
		t.Errorf("unexpected info payload: %+v", body)
	}
	if body.Data.Endpoints["conversations"] != "/api/conversations" {
		t.Errorf("missing conversations endpoint: %v", body.Data.Endpoints)
	}
}

type brokenWriter struct {
	header http.Header
	status int
}

func (b *brokenWriter) Header() http.Header         { return b.header }
func (b *brokenWriter) WriteHeader(status int)      { b.status = status }
func (b *brokenWriter) Write(p []byte) (int, error) { return 0, errors.New("connection reset") }

func TestHealthCheckLogsWriteFailure(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	prev := logging.ErrorLogger
	logging.ErrorLogger = zap.New(core)
	t.Cleanup(func() { logging.ErrorLogger = prev })

	w := &brokenWriter{header: http.Header{}}
	NewHealthController().HealthCheck(w, httptest.NewRequest("GET", "/health", nil))

	if w.status != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.status)
	}
	if logs.FilterMessage("failed to encode response").Len() != 1 {
		t.Errorf("expected the encode failure to be logged, got %v", logs.All())
	}
}
