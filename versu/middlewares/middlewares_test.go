package middlewares

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"versu/versu/controllers"
	"versu/versu/sources/psql/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	users map[string]*models.User
	err   error
}

func (f fakeVerifier) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, controllers.ErrInvalidToken
}

func protected(v TokenVerifier) http.Handler {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(v))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(UserID(r.Context())))
	})
	return r
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body.Error
}

func TestAuthMiddleware(t *testing.T) {
	v := fakeVerifier{users: map[string]*models.User{"good": {ID: "u1"}}}
	h := protected(v)

	cases := []struct {
		name   string
		header string
		status int
		errMsg string
	}{
		{"missing header", "", http.StatusUnauthorized, "Token de autorización requerido"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Formato de token inválido"},
		{"bad token", "Bearer nope", http.StatusUnauthorized, "Token inválido o expirado"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.errMsg, errorOf(t, rr))
		})
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "u1", rr.Body.String())
}

func TestAuthMiddlewareStorageFailure(t *testing.T) {
	h := protected(fakeVerifier{err: fmt.Errorf("load token user: %w", context.DeadlineExceeded)})
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer any")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCORS(t *testing.T) {
	h := CORS("http://localhost:3000/")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	pre := httptest.NewRequest(http.MethodOptions, "/api/prompts", nil)
	pre.Header.Set("Origin", "http://localhost:3000")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, pre)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	foreign := httptest.NewRequest(http.MethodGet, "/api/prompts", nil)
	foreign.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, foreign)
	assert.Equal(t, http.StatusTeapot, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RequestLogger)
	var pattern string
	r.Get("/items/{id}", func(w http.ResponseWriter, req *http.Request) {
		pattern = routePattern(req)
		w.WriteHeader(http.StatusAccepted)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest("GET", "/items/42", nil))

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "/items/{id}", pattern)
	assert.Equal(t, "unmatched", routePattern(httptest.NewRequest("GET", "/", nil)))
}
