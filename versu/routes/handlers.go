package routes

import (
	"errors"
	"net/http"

	"versu/versu/controllers"
	httputils "versu/versu/utils/http"
	"versu/versu/utils/logging"
	"versu/versu/utils/types"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const internalError = "Error interno del servidor"

// requestError marks a 400 caused by the client's input. label names the input part.
type requestError struct {
	label string
	err   error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func invalidBody(err error) error  { return &requestError{label: "Datos de entrada inválidos", err: err} }
func invalidQuery(err error) error { return &requestError{label: "Parámetros de consulta inválidos", err: err} }

// generic wrapper to reduce boilerplate; data is wrapped in the success envelope.
func handleJSON(message string, handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httputils.Success(w, status, res, message)
	}
}

type mappedError struct {
	status  int
	err     string
	message string
}

var errorTable = []struct {
	target error
	mapped mappedError
}{
	{controllers.ErrConversationNotFound, mappedError{http.StatusNotFound, "Conversación no encontrada", ""}},
	{controllers.ErrPromptNotFound, mappedError{http.StatusNotFound, "Prompt no encontrado", ""}},
	{controllers.ErrUserNotFound, mappedError{http.StatusNotFound, "Usuario no encontrado", ""}},
	{controllers.ErrPromptNameTaken, mappedError{http.StatusConflict, "Conflicto", "Ya existe un prompt con ese nombre"}},
	{controllers.ErrEmailTaken, mappedError{http.StatusConflict, "Conflicto", "El email ya está registrado"}},
	{controllers.ErrInvalidCredentials, mappedError{http.StatusUnauthorized, "Credenciales inválidas", "Email o contraseña incorrectos"}},
	{controllers.ErrInvalidToken, mappedError{http.StatusUnauthorized, "Token inválido o expirado", ""}},
	{controllers.ErrDemoDisabled, mappedError{http.StatusForbidden, "Funcionalidad no disponible en producción", ""}},
	{controllers.ErrStorageDisabled, mappedError{http.StatusServiceUnavailable, "Almacenamiento no disponible", "La subida de avatares no está configurada"}},
	{controllers.ErrInvalidAvatar, mappedError{http.StatusBadRequest, "Datos de entrada inválidos", "El avatar debe ser una imagen"}},
	{controllers.ErrAvatarTooLarge, mappedError{http.StatusRequestEntityTooLarge, "Archivo demasiado grande", "El avatar no puede superar 5 MB"}},
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	if errors.As(err, &reqErr) {
		message := reqErr.err.Error()
		var verr *types.ValidationError
		if errors.As(reqErr.err, &verr) {
			message = verr.Message
		}
		httputils.Fail(w, http.StatusBadRequest, reqErr.label, message)
		return
	}
	for _, e := range errorTable {
		if errors.Is(err, e.target) {
			httputils.Fail(w, e.mapped.status, e.mapped.err, e.mapped.message)
			return
		}
	}
	logging.ErrorLogger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err))
	httputils.Fail(w, http.StatusInternalServerError, internalError, "")
}

// decodeBody decodes and validates a JSON request body.
func decodeBody(r *http.Request, dst any) error {
	if err := httputils.DecodeJSON(r, dst); err != nil {
		return invalidBody(err)
	}
	if err := types.Validate(dst); err != nil {
		return invalidBody(err)
	}
	return nil
}
