package routes

import (
	"net/http"

	"versu/versu/controllers"
	"versu/versu/middlewares"
	httputils "versu/versu/utils/http"
	"versu/versu/utils/types"

	"github.com/go-chi/chi/v5"
)

func PromptRoutes(ctrl *controllers.PromptController, verifier middlewares.TokenVerifier) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(verifier))

	r.Get("/active", handleJSON("Prompts activos obtenidos exitosamente", func(r *http.Request) (any, int, error) {
		prompts, err := ctrl.ListActive(r.Context())
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"prompts": prompts}, http.StatusOK, nil
	}))

	r.Get("/stats", handleJSON("Estadísticas obtenidas exitosamente", func(r *http.Request) (any, int, error) {
		stats, err := ctrl.UsageStats(r.Context())
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"stats": stats}, http.StatusOK, nil
	}))

	r.Get("/", handleJSON("Prompts obtenidos exitosamente", func(r *http.Request) (any, int, error) {
		q, err := parsePromptQuery(r.URL.Query())
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		page, err := ctrl.List(r.Context(), q)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return page, http.StatusOK, nil
	}))

	r.Post("/", handleJSON("Prompt creado exitosamente", func(r *http.Request) (any, int, error) {
		var req types.CreatePromptRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		p, err := ctrl.Create(r.Context(), req)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"prompt": p}, http.StatusCreated, nil
	}))

	r.Get("/{id}", handleJSON("Prompt obtenido exitosamente", func(r *http.Request) (any, int, error) {
		p, err := ctrl.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"prompt": p}, http.StatusOK, nil
	}))

	r.Put("/{id}", handleJSON("Prompt actualizado exitosamente", func(r *http.Request) (any, int, error) {
		var req types.UpdatePromptRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		p, err := ctrl.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return map[string]any{"prompt": p}, http.StatusOK, nil
	}))

	r.Delete("/{id}", handleJSON("Prompt eliminado exitosamente", func(r *http.Request) (any, int, error) {
		if err := ctrl.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return nil, http.StatusOK, nil
	}))

	r.Patch("/{id}/toggle", func(w http.ResponseWriter, r *http.Request) {
		var req types.TogglePromptRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		p, err := ctrl.Toggle(r.Context(), chi.URLParam(r, "id"), *req.IsActive)
		if err != nil {
			writeError(w, r, err)
			return
		}
		state := "desactivado"
		if p.IsActive {
			state = "activado"
		}
		httputils.Success(w, http.StatusOK, map[string]any{"prompt": p}, "Prompt "+state+" exitosamente")
	})

	return r
}
