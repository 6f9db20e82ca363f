package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRole string

const (
	RoleUser MessageRole = "USER"
	RoleAI   MessageRole = "AI"
)

// Message rows are append-only.
type Message struct {
	ID             string      `json:"id" gorm:"type:varchar(36);primaryKey"`
	ConversationID string      `json:"conversationId" gorm:"type:varchar(36);not null;index:idx_conversation_messages,priority:1"`
	Content        string      `json:"content" gorm:"type:text;not null"`
	Role           MessageRole `json:"role" gorm:"type:varchar(10);not null"`
	PromptUsed     *string     `json:"promptUsed" gorm:"type:varchar(100)"`
	ResponseTime   *int64      `json:"responseTime"` // ms, AI replies only
	CreatedAt      time.Time   `json:"createdAt" gorm:"autoCreateTime;index:idx_conversation_messages,priority:2"`
}

func (Message) TableName() string {
	return "messages"
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
