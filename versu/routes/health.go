package routes

import (
	"versu/versu/controllers"

	"github.com/go-chi/chi/v5"
)

// HealthRoutes registers the liveness and discovery endpoints on the /api router.
func HealthRoutes(r chi.Router, ctrl *controllers.HealthController) {
	r.Get("/health", ctrl.APIHealth)
	r.Get("/info", ctrl.Info)
}
