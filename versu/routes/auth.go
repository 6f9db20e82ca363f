package routes

import (
	"errors"
	"fmt"
	"net/http"

	"versu/versu/controllers"
	"versu/versu/middlewares"
	"versu/versu/utils/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", handleJSON("Usuario registrado exitosamente", func(r *http.Request) (any, int, error) {
		var req types.RegisterRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		res, err := ctrl.Register(r.Context(), req)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return res, http.StatusCreated, nil
	}))

	r.Post("/login", handleJSON("Inicio de sesión exitoso", func(r *http.Request) (any, int, error) {
		var req types.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		res, err := ctrl.Login(r.Context(), req)
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return res, http.StatusOK, nil
	}))

	r.Post("/demo", handleJSON("Usuario demo creado/obtenido exitosamente", func(r *http.Request) (any, int, error) {
		res, err := ctrl.Demo(r.Context())
		if err != nil {
			return nil, http.StatusInternalServerError, err
		}
		return res, http.StatusOK, nil
	}))

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(ctrl))

		gr.Get("/profile", handleJSON("Perfil obtenido exitosamente", func(r *http.Request) (any, int, error) {
			user, err := ctrl.GetProfile(r.Context(), middlewares.UserID(r.Context()))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]any{"user": user}, http.StatusOK, nil
		}))

		gr.Put("/profile", handleJSON("Perfil actualizado exitosamente", func(r *http.Request) (any, int, error) {
			var req types.UpdateProfileRequest
			if err := decodeBody(r, &req); err != nil {
				return nil, http.StatusBadRequest, err
			}
			user, err := ctrl.UpdateProfile(r.Context(), middlewares.UserID(r.Context()), req)
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]any{"user": user}, http.StatusOK, nil
		}))

		gr.Post("/profile/avatar", handleJSON("Avatar actualizado exitosamente", func(r *http.Request) (any, int, error) {
			// Leave room for multipart framing around the file itself.
			r.Body = http.MaxBytesReader(nil, r.Body, controllers.MaxAvatarBytes+1<<20)
			file, header, err := r.FormFile("avatar")
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					return nil, http.StatusRequestEntityTooLarge, controllers.ErrAvatarTooLarge
				}
				return nil, http.StatusBadRequest, invalidBody(fmt.Errorf("\"avatar\" es requerido"))
			}
			defer file.Close()
			user, err := ctrl.UploadAvatar(r.Context(), middlewares.UserID(r.Context()), file, header.Size, header.Header.Get("Content-Type"))
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return map[string]any{"user": user}, http.StatusOK, nil
		}))

		gr.Get("/me", handleJSON("Usuario autenticado", func(r *http.Request) (any, int, error) {
			return map[string]any{"user": middlewares.UserFromContext(r.Context())}, http.StatusOK, nil
		}))

		// Tokens are stateless; the client discards its copy.
		gr.Post("/logout", handleJSON("Sesión cerrada exitosamente", func(r *http.Request) (any, int, error) {
			return nil, http.StatusOK, nil
		}))
	})

	return r
}
