package llm

import (
	"context"
	"errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyCompletion is returned when the provider answers without any choice.
var ErrEmptyCompletion = errors.New("no choices returned")

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest leaves sampling parameters to the client; only the model can be overridden.
type ChatRequest struct {
	Model    string    `json:"model,omitempty"`
	Messages []Message `json:"messages"`
}

// Client is implemented by every chat completion backend.
type Client interface {
	Run(ctx context.Context, req ChatRequest) (string, error)
}
