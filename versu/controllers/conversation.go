package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"versu/versu/services/llm"
	"versu/versu/services/metrics"
	"versu/versu/sources/psql/dao"
	"versu/versu/sources/psql/models"
	"versu/versu/utils/logging"
	"versu/versu/utils/types"

	"go.uber.org/zap"
)

const (
	historyLimit = 10

	FallbackReply    = "Lo siento, estoy experimentando dificultades técnicas. Por favor intenta de nuevo más tarde."
	FallbackPrompt   = "error-fallback"
	EmptyReplyNotice = "Lo siento, no pude generar una respuesta."
)

var errReplyStorage = errors.New("reply storage")

type ConversationController struct {
	conversations *dao.ConversationDAO
	messages      *dao.MessageDAO
	prompts       *dao.PromptDAO
	llm           llm.Client
	model         string
	now           func() time.Time
}

func NewConversationController(conversations *dao.ConversationDAO, messages *dao.MessageDAO, prompts *dao.PromptDAO, client llm.Client, model string) *ConversationController {
	return &ConversationController{
		conversations: conversations,
		messages:      messages,
		prompts:       prompts,
		llm:           client,
		model:         model,
		now:           time.Now,
	}
}

func (c *ConversationController) CreateConversation(ctx context.Context, userID string, channel models.Channel) (*models.Conversation, error) {
	if channel == "" {
		channel = models.ChannelWeb
	}
	conv := &models.Conversation{UserID: userID, Channel: channel, Status: models.StatusOpen}
	if err := c.conversations.CreateConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	metrics.RecordConversationCreated(string(channel))
	return conv, nil
}

func (c *ConversationController) ListConversations(ctx context.Context, userID string, q types.ConversationQuery) (*types.Page[dao.ConversationListItem], error) {
	defer logging.LogDuration(ctx, "ListConversations")()
	items, total, err := c.conversations.ListConversations(ctx, dao.ConversationFilter{
		UserID:    userID,
		Channel:   q.Channel,
		Status:    q.Status,
		MinRating: q.MinRating,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Offset:    types.Offset(q.Page, q.Limit),
		Limit:     q.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return &types.Page[dao.ConversationListItem]{
		Data:       items,
		Pagination: types.NewPagination(q.Page, q.Limit, total),
	}, nil
}

func (c *ConversationController) GetConversation(ctx context.Context, id, userID string) (*models.Conversation, error) {
	conv, err := c.conversations.GetConversationDetail(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// SendMessage stores the user's message and exactly one assistant reply. Provider and
// prompt failures never surface here; they produce the fallback reply instead.
func (c *ConversationController) SendMessage(ctx context.Context, conversationID, userID, content string, promptID *string) (*types.SendMessageResult, error) {
	defer logging.LogDuration(ctx, "SendMessage")()

	conv, err := c.conversations.GetConversationForUser(ctx, conversationID, userID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}

	userMsg := &models.Message{ConversationID: conv.ID, Content: content, Role: models.RoleUser}
	if err := c.messages.CreateMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("store user message: %w", err)
	}

	// The user message is already stored; a disconnecting client must not leave it
	// without a reply.
	ctx = context.WithoutCancel(ctx)

	aiMsg := c.reply(ctx, conv.ID, userMsg, promptID)
	if err := c.messages.AppendReply(ctx, aiMsg); err != nil {
		return nil, fmt.Errorf("store assistant message: %w", err)
	}
	return &types.SendMessageResult{UserMessage: userMsg, AIMessage: aiMsg}, nil
}

func (c *ConversationController) reply(ctx context.Context, conversationID string, userMsg *models.Message, promptID *string) *models.Message {
	content, promptName, elapsed, err := c.complete(ctx, conversationID, userMsg, promptID)
	if err != nil {
		errType := classifyReplyError(err)
		logging.ErrorLogger.Error("assistant reply failed, using fallback",
			zap.String("conversation_id", conversationID),
			zap.String("error_type", errType),
			zap.Error(err))
		metrics.RecordProviderError(errType)
		metrics.RecordTurn(metrics.OutcomeFallback)
		return newAIMessage(conversationID, FallbackReply, FallbackPrompt, 0)
	}
	metrics.RecordTurn(metrics.OutcomeSuccess)
	return newAIMessage(conversationID, content, promptName, elapsed.Milliseconds())
}

func (c *ConversationController) complete(ctx context.Context, conversationID string, userMsg *models.Message, promptID *string) (string, string, time.Duration, error) {
	// Latency covers prompt lookup and history as well as the provider call.
	start := time.Now()

	prompt, err := c.resolvePrompt(ctx, promptID)
	if err != nil {
		return "", "", 0, err
	}

	recent, err := c.messages.RecentMessages(ctx, conversationID, historyLimit, userMsg.ID)
	if err != nil {
		return "", "", 0, fmt.Errorf("load history: %w: %w", errReplyStorage, err)
	}

	req := llm.ChatRequest{Messages: buildInstructions(prompt.Content, recent, userMsg.Content)}
	providerStart := time.Now()
	reply, err := c.llm.Run(ctx, req)
	metrics.RecordProviderLatency(c.model, time.Since(providerStart).Seconds())
	if err != nil {
		return "", "", 0, err
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = EmptyReplyNotice
	}
	return reply, prompt.Name, time.Since(start), nil
}

func (c *ConversationController) resolvePrompt(ctx context.Context, promptID *string) (*models.Prompt, error) {
	var (
		prompt *models.Prompt
		err    error
	)
	if promptID != nil && *promptID != "" {
		prompt, err = c.prompts.GetPromptByID(ctx, *promptID)
		if err == nil && prompt == nil {
			return nil, fmt.Errorf("%w: %s", ErrPromptNotFound, *promptID)
		}
	} else {
		prompt, err = c.prompts.GetActivePrompt(ctx)
		if err == nil && prompt == nil {
			return nil, ErrNoActivePrompt
		}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve prompt: %w: %w", errReplyStorage, err)
	}
	return prompt, nil
}

// buildInstructions expects recent newest first, as returned by the DAO.
func buildInstructions(system string, recent []models.Message, content string) []llm.Message {
	msgs := make([]llm.Message, 0, len(recent)+2)
	msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	for i := len(recent) - 1; i >= 0; i-- {
		role := llm.RoleAssistant
		if recent[i].Role == models.RoleUser {
			role = llm.RoleUser
		}
		msgs = append(msgs, llm.Message{Role: role, Content: recent[i].Content})
	}
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: content})
}

func classifyReplyError(err error) string {
	switch {
	case errors.Is(err, ErrNoActivePrompt), errors.Is(err, ErrPromptNotFound):
		return metrics.ErrorTypeConfiguration
	case errors.Is(err, context.DeadlineExceeded), isTimeout(err):
		return metrics.ErrorTypeTimeout
	case errors.Is(err, llm.ErrEmptyCompletion):
		return metrics.ErrorTypeEmpty
	case errors.Is(err, errReplyStorage):
		return metrics.ErrorTypeStorage
	default:
		return metrics.ErrorTypeProvider
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func newAIMessage(conversationID, content, promptUsed string, responseTime int64) *models.Message {
	return &models.Message{
		ConversationID: conversationID,
		Content:        content,
		Role:           models.RoleAI,
		PromptUsed:     &promptUsed,
		ResponseTime:   &responseTime,
	}
}

// RateConversation stores the rating and closes the conversation.
func (c *ConversationController) RateConversation(ctx context.Context, id, userID string, rating int) (*models.Conversation, error) {
	conv, err := c.conversations.GetConversationForUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	updated, err := c.conversations.Rate(ctx, conv.ID, rating)
	if err != nil {
		return nil, fmt.Errorf("rate conversation: %w", err)
	}
	return updated, nil
}

// CloseConversation is idempotent: a closed conversation is returned untouched.
func (c *ConversationController) CloseConversation(ctx context.Context, id, userID string) (*models.Conversation, error) {
	conv, err := c.conversations.GetConversationForUser(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if conv.Status == models.StatusClosed {
		return conv, nil
	}
	updated, err := c.conversations.Close(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("close conversation: %w", err)
	}
	return updated, nil
}

// DashboardMetrics aggregates conversation activity. An empty userID covers every user.
func (c *ConversationController) DashboardMetrics(ctx context.Context, userID string) (*types.DashboardMetrics, error) {
	defer logging.LogDuration(ctx, "DashboardMetrics")()

	now := c.now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.Add(-7 * 24 * time.Hour)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	count := func(q dao.CountQuery) (int64, error) {
		q.UserID = userID
		return c.conversations.CountConversations(ctx, q)
	}

	var (
		out types.DashboardMetrics
		err error
	)
	if out.TotalConversations.Today, err = count(dao.CountQuery{CreatedFrom: &todayStart}); err != nil {
		return nil, fmt.Errorf("count today: %w", err)
	}
	if out.TotalConversations.Week, err = count(dao.CountQuery{CreatedFrom: &weekStart}); err != nil {
		return nil, fmt.Errorf("count week: %w", err)
	}
	if out.TotalConversations.Month, err = count(dao.CountQuery{CreatedFrom: &monthStart}); err != nil {
		return nil, fmt.Errorf("count month: %w", err)
	}

	satisfied, err := count(dao.CountQuery{MinRating: 4})
	if err != nil {
		return nil, fmt.Errorf("count satisfied: %w", err)
	}
	rated, err := count(dao.CountQuery{RatedOnly: true})
	if err != nil {
		return nil, fmt.Errorf("count rated: %w", err)
	}
	out.SatisfactionRate = satisfactionRate(satisfied, rated)

	avg, err := c.messages.AverageResponseTime(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("average response time: %w", err)
	}
	out.AverageResponseTime = int64(math.Round(avg))

	out.ConversationTrend = make([]types.TrendPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		dayStart := todayStart.AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)
		n, err := count(dao.CountQuery{CreatedFrom: &dayStart, CreatedTo: &dayEnd})
		if err != nil {
			return nil, fmt.Errorf("count trend: %w", err)
		}
		out.ConversationTrend = append(out.ConversationTrend, types.TrendPoint{
			Date:  dayStart.Format("2006-01-02"),
			Count: n,
		})
	}
	return &out, nil
}

func satisfactionRate(satisfied, rated int64) float64 {
	if rated == 0 {
		return 0
	}
	return math.Round(float64(satisfied)/float64(rated)*100*100) / 100
}

// OwnsConversation backs the realtime room check.
func (c *ConversationController) OwnsConversation(ctx context.Context, conversationID, userID string) (bool, error) {
	conv, err := c.conversations.GetConversationForUser(ctx, conversationID, userID)
	if err != nil {
		return false, err
	}
	return conv != nil, nil
}
