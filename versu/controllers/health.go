package controllers

import (
	"net/http"
	"time"

	httputils "versu/versu/utils/http"
)

const APIVersion = "1.0.0"

type HealthController struct {
	now func() time.Time
}

func NewHealthController() *HealthController {
	return &HealthController{now: time.Now}
}

func (h *HealthController) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, map[string]any{
		"status":    "OK",
		"message":   "Versu AI Backend is running",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthController) APIHealth(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, map[string]any{
		"success":   true,
		"message":   "API funcionando correctamente",
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   APIVersion,
	})
}

func (h *HealthController) Info(w http.ResponseWriter, r *http.Request) {
	writeHealth(w, map[string]any{
		"success": true,
		"data": map[string]any{
			"name":        "Versu AI Dashboard API",
			"version":     APIVersion,
			"description": "API para dashboard de conversaciones de IA",
			"endpoints": map[string]string{
				"auth":          "/api/auth",
				"conversations": "/api/conversations",
				"prompts":       "/api/prompts",
				"health":        "/api/health",
				"info":          "/api/info",
				"realtime":      "/ws",
			},
		},
	})
}

func writeHealth(w http.ResponseWriter, body any) {
	httputils.WriteJSON(w, http.StatusOK, body)
}
