package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"versu/versu/config"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GroqClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGroqClient(config.Config{
		LLMAPIKey:    "test-key",
		LLMBaseURL:   srv.URL + "/v1",
		LLMModel:     "llama-3.1-8b-instant",
		LLMTimeout:   time.Second,
		LLMMaxTokens: 1000,
	})
}

func writeCompletion(w http.ResponseWriter, contents ...string) {
	resp := openai.ChatCompletionResponse{ID: "chatcmpl-1", Model: "llama-3.1-8b-instant"}
	for i, c := range contents {
		resp.Choices = append(resp.Choices, openai.ChatCompletionChoice{
			Index:   i,
			Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: c},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func TestRunSendsParametersAndHistory(t *testing.T) {
	var got openai.ChatCompletionRequest
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeCompletion(w, "¡Hola! ¿En qué puedo ayudarte?")
	})

	reply, err := client.Run(context.Background(), ChatRequest{Messages: []Message{
		{Role: RoleSystem, Content: "Eres un asistente."},
		{Role: RoleUser, Content: "Hola"},
	}})
	require.NoError(t, err)

	assert.Equal(t, "¡Hola! ¿En qué puedo ayudarte?", reply)
	assert.Equal(t, "Bearer test-key", auth)
	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.Equal(t, 1000, got.MaxTokens)
	assert.InDelta(t, 0.7, got.Temperature, 0.0001)
	assert.InDelta(t, 0.5, got.FrequencyPenalty, 0.0001)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
}

func TestRunWithoutChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeCompletion(w)
	})

	_, err := client.Run(context.Background(), ChatRequest{Messages: []Message{{Role: RoleUser, Content: "Hola"}}})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestRunProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	})

	_, err := client.Run(context.Background(), ChatRequest{Messages: []Message{{Role: RoleUser, Content: "Hola"}}})
	require.Error(t, err)

	var apiErr *openai.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatusCode)
}

func TestValidateUsesTinyProbe(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeCompletion(w, "Hola")
	})

	require.NoError(t, client.Validate(context.Background()))
	assert.Equal(t, 5, got.MaxTokens)
}

func TestRunHonoursTimeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(3 * time.Second):
		case <-r.Context().Done():
		}
	})

	_, err := client.Run(context.Background(), ChatRequest{Messages: []Message{{Role: RoleUser, Content: "Hola"}}})
	assert.Error(t, err)
}
