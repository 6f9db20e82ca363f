package types

import (
	"time"

	"versu/versu/sources/psql/models"
)

type CreateConversationRequest struct {
	Channel models.Channel `json:"channel" validate:"omitempty,oneof=WEB WHATSAPP INSTAGRAM"`
}

type SendMessageRequest struct {
	Content  string  `json:"content" validate:"required,min=1,max=2000"`
	PromptID *string `json:"promptId" validate:"omitempty,min=1"`
}

type RateConversationRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// ConversationQuery is decoded from the query string of GET /conversations.
type ConversationQuery struct {
	Page      int                       `validate:"min=1"`
	Limit     int                       `validate:"min=1,max=100"`
	Channel   models.Channel            `validate:"omitempty,oneof=WEB WHATSAPP INSTAGRAM"`
	Status    models.ConversationStatus `validate:"omitempty,oneof=OPEN CLOSED"`
	MinRating int                       `validate:"omitempty,min=1,max=5"`
	StartDate *time.Time
	EndDate   *time.Time
}

type SendMessageResult struct {
	UserMessage *models.Message `json:"userMessage"`
	AIMessage   *models.Message `json:"aiMessage"`
}

type ConversationTotals struct {
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
}

type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type DashboardMetrics struct {
	TotalConversations  ConversationTotals `json:"totalConversations"`
	SatisfactionRate    float64            `json:"satisfactionRate"`
	AverageResponseTime int64              `json:"averageResponseTime"`
	ConversationTrend   []TrendPoint       `json:"conversationTrend"`
}
