package routes

import (
	"net/http"
	"net/url"
	"strings"

	"versu/versu/middlewares"
	"versu/versu/services/realtime"
	httputils "versu/versu/utils/http"
	"versu/versu/utils/logging"

	"github.com/coder/websocket"
	"go.uber.org/zap"
)

// RealtimeHandler upgrades GET /ws?token=<jwt> after the token checks out.
// It must sit outside any middleware.Timeout group.
func RealtimeHandler(hub *realtime.Hub, verifier middlewares.TokenVerifier, owner realtime.OwnershipChecker, frontendURL string) http.HandlerFunc {
	opts := &websocket.AcceptOptions{OriginPatterns: originPatterns(frontendURL)}
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			token = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if token == "" {
			httputils.Fail(w, http.StatusUnauthorized, "Token de autorización requerido", "")
			return
		}
		user, err := verifier.VerifyToken(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			logging.ErrorLogger.Error("websocket accept failed", zap.Error(err))
			return
		}
		defer conn.CloseNow()

		hub.Serve(r.Context(), conn, user.ID, owner)
		conn.Close(websocket.StatusNormalClosure, "")
	}
}

func originPatterns(frontendURL string) []string {
	u, err := url.Parse(frontendURL)
	if err != nil || u.Host == "" {
		return nil
	}
	return []string{u.Host}
}
