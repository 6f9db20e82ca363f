package dao

import (
	"context"
	"database/sql"

	"versu/versu/sources/psql/models"

	"gorm.io/gorm"
)

type MessageDAO struct {
	DB *gorm.DB
}

func NewMessageDAO(db *gorm.DB) *MessageDAO {
	return &MessageDAO{DB: db}
}

func (dao *MessageDAO) CreateMessage(ctx context.Context, msg *models.Message) error {
	return dao.DB.WithContext(ctx).Create(msg).Error
}

// AppendReply stores an assistant reply and bumps the conversation's updated_at in
// one transaction.
func (dao *MessageDAO) AppendReply(ctx context.Context, msg *models.Message) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&models.Conversation{ID: msg.ConversationID}).
			Update("updated_at", msg.CreatedAt).Error
	})
}

// RecentMessages returns up to limit messages of a conversation, newest first.
// excludeID, when set, leaves that message out of the window.
func (dao *MessageDAO) RecentMessages(ctx context.Context, conversationID string, limit int, excludeID string) ([]models.Message, error) {
	q := dao.DB.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var msgs []models.Message
	if err := q.Order("created_at DESC").Limit(limit).Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// AverageResponseTime averages AI response times in ms. Empty userID averages globally.
func (dao *MessageDAO) AverageResponseTime(ctx context.Context, userID string) (float64, error) {
	q := dao.DB.WithContext(ctx).
		Table("messages").
		Select("AVG(messages.response_time)").
		Where("messages.role = ? AND messages.response_time IS NOT NULL", models.RoleAI)
	if userID != "" {
		q = q.Joins("JOIN conversations ON conversations.id = messages.conversation_id").
			Where("conversations.user_id = ?", userID)
	}
	var avg sql.NullFloat64
	if err := q.Row().Scan(&avg); err != nil {
		return 0, err
	}
	return avg.Float64, nil
}
