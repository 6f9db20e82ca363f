package httputils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuccessEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	Success(rr, http.StatusCreated, map[string]string{"id": "1"}, "creado")

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"id":"1"},"message":"creado"}`, rr.Body.String())
}

func TestFailEnvelopeOmitsData(t *testing.T) {
	rr := httptest.NewRecorder()
	Fail(rr, http.StatusNotFound, "Prompt no encontrado", "")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Prompt no encontrado", body["error"])
	assert.NotContains(t, body, "data")
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ana"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "Ana", dst.Name)

	empty := httptest.NewRequest("POST", "/", strings.NewReader(""))
	assert.NoError(t, DecodeJSON(empty, &dst))

	bad := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	assert.Error(t, DecodeJSON(bad, &dst))

	trailing := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ana"}{"x":1}`))
	assert.Error(t, DecodeJSON(trailing, &dst))

	garbage := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Ana"} x`))
	assert.Error(t, DecodeJSON(garbage, &dst))

	newline := httptest.NewRequest("POST", "/", strings.NewReader("{\"name\":\"Ana\"}\n"))
	assert.NoError(t, DecodeJSON(newline, &dst))
}
