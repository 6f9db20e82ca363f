package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Channel string

const (
	ChannelWeb       Channel = "WEB"
	ChannelWhatsApp  Channel = "WHATSAPP"
	ChannelInstagram Channel = "INSTAGRAM"
)

type ConversationStatus string

const (
	StatusOpen   ConversationStatus = "OPEN"
	StatusClosed ConversationStatus = "CLOSED"
)

// Conversation is owned by exactly one user. A rated conversation is always CLOSED.
type Conversation struct {
	ID        string             `json:"id" gorm:"type:varchar(36);primaryKey"`
	UserID    string             `json:"userId" gorm:"type:varchar(36);not null;index"`
	User      *User              `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Channel   Channel            `json:"channel" gorm:"type:varchar(20);not null;default:'WEB'"`
	Status    ConversationStatus `json:"status" gorm:"type:varchar(20);not null;default:'OPEN';index"`
	Rating    *int               `json:"rating"`
	CreatedAt time.Time          `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time          `json:"updatedAt" gorm:"autoUpdateTime;index"`
	Messages  []Message          `json:"messages,omitempty" gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (c *Conversation) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
