package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"versu/versu/config"
	"versu/versu/utils/logging"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const (
	defaultTemperature      = 0.7
	defaultFrequencyPenalty = 0.5
	validateTimeout         = 10 * time.Second
)

// GroqClient talks to Groq through its OpenAI-compatible API.
type GroqClient struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewGroqClient(cfg config.Config) *GroqClient {
	oc := openai.DefaultConfig(cfg.LLMAPIKey)
	oc.BaseURL = cfg.LLMBaseURL
	oc.HTTPClient = &http.Client{Timeout: cfg.LLMTimeout}
	return &GroqClient{
		client:    openai.NewClientWithConfig(oc),
		model:     cfg.LLMModel,
		maxTokens: cfg.LLMMaxTokens,
	}
}

func (c *GroqClient) Model() string {
	return c.model
}

// Run (non-streaming) chat completion
func (c *GroqClient) Run(ctx context.Context, req ChatRequest) (string, error) {
	defer logging.LogDuration(ctx, "groq_service_run")()
	return c.complete(ctx, req, c.maxTokens)
}

// Validate sends a tiny completion to confirm the key and model are usable.
func (c *GroqClient) Validate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()
	_, err := c.complete(ctx, ChatRequest{
		Messages: []Message{{Role: RoleUser, Content: "Hola"}},
	}, 5)
	if err != nil {
		logging.ErrorLogger.Error("groq configuration check failed", zap.Error(err))
		return err
	}
	logging.AppLogger.Info("groq configuration valid", zap.String("model", c.model))
	return nil
}

func (c *GroqClient) complete(ctx context.Context, req ChatRequest, maxTokens int) (string, error) {
	model := req.Model
	if model == "" {
		model = c.model
	}
	msgs := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            model,
		Messages:         msgs,
		MaxTokens:        maxTokens,
		Temperature:      defaultTemperature,
		FrequencyPenalty: defaultFrequencyPenalty,
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}
