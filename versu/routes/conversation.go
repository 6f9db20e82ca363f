package routes

import (
	"net/http"

	"versu/versu/controllers"
	"versu/versu/middlewares"
	"versu/versu/utils/types"

	"github.com/go-chi/chi/v5"
)

func ConversationRoutes(ctrl *controllers.ConversationController, verifier middlewares.TokenVerifier) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(verifier))

	// Registered ahead of /{id} so "metrics" is never read as an id.
	r.Get("/metrics", handleJSON("Métricas obtenidas exitosamente", func(r *http.Request) (any, int, error) {
		m, err := ctrl.DashboardMetrics(r.Context(), middlewares.UserID(r.Context()))
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"metrics": m}, http.StatusOK, nil
	}))

	r.Get("/metrics/global", handleJSON("Métricas globales obtenidas exitosamente", func(r *http.Request) (any, int, error) {
		m, err := ctrl.DashboardMetrics(r.Context(), "")
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"metrics": m}, http.StatusOK, nil
	}))

	r.Post("/", handleJSON("Conversación creada exitosamente", func(r *http.Request) (any, int, error) {
		var req types.CreateConversationRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		conv, err := ctrl.CreateConversation(r.Context(), middlewares.UserID(r.Context()), req.Channel)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"conversation": conv}, http.StatusCreated, nil
	}))

	r.Get("/", handleJSON("Conversaciones obtenidas exitosamente", func(r *http.Request) (any, int, error) {
		q, err := parseConversationQuery(r.URL.Query())
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		page, err := ctrl.ListConversations(r.Context(), middlewares.UserID(r.Context()), q)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return page, http.StatusOK, nil
	}))

	r.Get("/{id}", handleJSON("Conversación obtenida exitosamente", func(r *http.Request) (any, int, error) {
		conv, err := ctrl.GetConversation(r.Context(), chi.URLParam(r, "id"), middlewares.UserID(r.Context()))
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"conversation": conv}, http.StatusOK, nil
	}))

	r.Post("/{id}/messages", handleJSON("Mensaje enviado exitosamente", func(r *http.Request) (any, int, error) {
		var req types.SendMessageRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		res, err := ctrl.SendMessage(r.Context(), chi.URLParam(r, "id"), middlewares.UserID(r.Context()), req.Content, req.PromptID)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return res, http.StatusCreated, nil
	}))

	r.Post("/{id}/rate", handleJSON("Conversación calificada exitosamente", func(r *http.Request) (any, int, error) {
		var req types.RateConversationRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		conv, err := ctrl.RateConversation(r.Context(), chi.URLParam(r, "id"), middlewares.UserID(r.Context()), req.Rating)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"conversation": conv}, http.StatusOK, nil
	}))

	r.Post("/{id}/close", handleJSON("Conversación cerrada exitosamente", func(r *http.Request) (any, int, error) {
		conv, err := ctrl.CloseConversation(r.Context(), chi.URLParam(r, "id"), middlewares.UserID(r.Context()))
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"conversation": conv}, http.StatusOK, nil
	}))

	return r
}
