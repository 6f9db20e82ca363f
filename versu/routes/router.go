package routes

import (
	"net/http"
	"time"

	"versu/versu/controllers"
	"versu/versu/middlewares"
	"versu/versu/services/realtime"
	httputils "versu/versu/utils/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth          *controllers.AuthController
	Conversations *controllers.ConversationController
	Prompts       *controllers.PromptController
	Health        *controllers.HealthController
	Hub           *realtime.Hub
	FrontendURL   string
}

func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewares.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CORS(h.FrontendURL))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputils.Fail(w, http.StatusNotFound, "Not Found", "Route "+r.URL.RequestURI()+" not found")
	})

	// Long-lived websocket connections stay out of the request timeout.
	r.Get("/ws", RealtimeHandler(h.Hub, h.Auth, h.Conversations, h.FrontendURL))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/health", h.Health.HealthCheck)
		r.Route("/api", func(r chi.Router) {
			HealthRoutes(r, h.Health)
			r.Mount("/auth", AuthRoutes(h.Auth))
			r.Mount("/conversations", ConversationRoutes(h.Conversations, h.Auth))
			r.Mount("/prompts", PromptRoutes(h.Prompts, h.Auth))
		})
	})

	return r
}
