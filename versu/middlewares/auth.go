package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"versu/versu/controllers"
	"versu/versu/sources/psql/models"
	httputils "versu/versu/utils/http"
	"versu/versu/utils/logging"

	"go.uber.org/zap"
)

type contextKey string

const UserKey contextKey = "user"

// TokenVerifier resolves a bearer token to the user it was issued for.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*models.User, error)
}

func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				httputils.Fail(w, http.StatusUnauthorized, "Token de autorización requerido", "")
				return
			}
			parts := strings.Split(auth, " ")
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				httputils.Fail(w, http.StatusUnauthorized, "Formato de token inválido", "")
				return
			}
			user, err := verifier.VerifyToken(r.Context(), parts[1])
			if err != nil {
				if !errors.Is(err, controllers.ErrInvalidToken) {
					logging.ErrorLogger.Error("token verification failed", zap.Error(err))
					httputils.Fail(w, http.StatusInternalServerError, "Error interno del servidor", "")
					return
				}
				httputils.Fail(w, http.StatusUnauthorized, "Token inválido o expirado", "")
				return
			}
			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserKey).(*models.User)
	return user
}

// UserID returns the authenticated user's id, or "" outside AuthMiddleware.
func UserID(ctx context.Context) string {
	if user := UserFromContext(ctx); user != nil {
		return user.ID
	}
	return ""
}
