package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prompt is a system instruction template. By convention a single prompt is active.
type Prompt struct {
	ID          string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex"`
	Description *string   `json:"description" gorm:"type:varchar(500)"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Prompt) TableName() string {
	return "prompts"
}

func (p *Prompt) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
