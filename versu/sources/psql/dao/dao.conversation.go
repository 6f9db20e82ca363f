package dao

import (
	"context"
	"errors"
	"time"

	"versu/versu/sources/psql/models"

	"gorm.io/gorm"
)

type ConversationDAO struct {
	DB *gorm.DB
}

func NewConversationDAO(db *gorm.DB) *ConversationDAO {
	return &ConversationDAO{DB: db}
}

// ConversationFilter narrows a listing. Zero values mean "no constraint".
type ConversationFilter struct {
	UserID    string
	Channel   models.Channel
	Status    models.ConversationStatus
	MinRating int
	StartDate *time.Time
	EndDate   *time.Time
	Offset    int
	Limit     int
}

// ConversationListItem is a conversation with a preview of its latest message.
type ConversationListItem struct {
	models.Conversation
	MessageCount int64   `json:"messageCount"`
	LastMessage  *string `json:"lastMessage,omitempty"`
}

// CountQuery selects conversations for dashboard counters. Empty UserID counts globally.
type CountQuery struct {
	UserID      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time // exclusive
	MinRating   int
	RatedOnly   bool
}

func (dao *ConversationDAO) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	return dao.DB.WithContext(ctx).Create(conv).Error
}

// GetConversationForUser returns the conversation only if userID owns it.
func (dao *ConversationDAO) GetConversationForUser(ctx context.Context, id, userID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetConversationDetail loads the owner and every message in chronological order.
func (dao *ConversationDAO) GetConversationDetail(ctx context.Context, id, userID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := dao.DB.WithContext(ctx).
		Preload("User").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (dao *ConversationDAO) ListConversations(ctx context.Context, f ConversationFilter) ([]ConversationListItem, int64, error) {
	q := dao.DB.WithContext(ctx).Model(&models.Conversation{}).Where("user_id = ?", f.UserID)
	if f.Channel != "" {
		q = q.Where("channel = ?", f.Channel)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.MinRating > 0 {
		q = q.Where("rating >= ?", f.MinRating)
	}
	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at <= ?", *f.EndDate)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var convs []models.Conversation
	if err := q.Order("updated_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&convs).Error; err != nil {
		return nil, 0, err
	}
	if len(convs) == 0 {
		return []ConversationListItem{}, total, nil
	}

	ids := make([]string, len(convs))
	for i, c := range convs {
		ids[i] = c.ID
	}
	var counts []struct {
		ConversationID string
		Total          int64
	}
	err := dao.DB.WithContext(ctx).
		Model(&models.Message{}).
		Select("conversation_id, COUNT(*) AS total").
		Where("conversation_id IN ?", ids).
		Group("conversation_id").
		Scan(&counts).Error
	if err != nil {
		return nil, 0, err
	}
	countByID := make(map[string]int64, len(counts))
	for _, c := range counts {
		countByID[c.ConversationID] = c.Total
	}

	items := make([]ConversationListItem, len(convs))
	for i, c := range convs {
		items[i] = ConversationListItem{Conversation: c, MessageCount: countByID[c.ID]}
		if items[i].MessageCount == 0 {
			continue
		}
		var last models.Message
		err := dao.DB.WithContext(ctx).
			Where("conversation_id = ?", c.ID).
			Order("created_at DESC").
			Limit(1).
			Find(&last).Error
		if err != nil {
			return nil, 0, err
		}
		if last.ID != "" {
			content := last.Content
			items[i].LastMessage = &content
		}
	}
	return items, total, nil
}

// Rate sets the rating and closes the conversation in a single update.
func (dao *ConversationDAO) Rate(ctx context.Context, id string, rating int) (*models.Conversation, error) {
	err := dao.DB.WithContext(ctx).
		Model(&models.Conversation{ID: id}).
		Updates(map[string]interface{}{"rating": rating, "status": models.StatusClosed}).Error
	if err != nil {
		return nil, err
	}
	return dao.getByID(ctx, id)
}

func (dao *ConversationDAO) Close(ctx context.Context, id string) (*models.Conversation, error) {
	err := dao.DB.WithContext(ctx).
		Model(&models.Conversation{ID: id}).
		Update("status", models.StatusClosed).Error
	if err != nil {
		return nil, err
	}
	return dao.getByID(ctx, id)
}

func (dao *ConversationDAO) getByID(ctx context.Context, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := dao.DB.WithContext(ctx).First(&conv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (dao *ConversationDAO) CountConversations(ctx context.Context, cq CountQuery) (int64, error) {
	q := dao.DB.WithContext(ctx).Model(&models.Conversation{})
	if cq.UserID != "" {
		q = q.Where("user_id = ?", cq.UserID)
	}
	if cq.CreatedFrom != nil {
		q = q.Where("created_at >= ?", *cq.CreatedFrom)
	}
	if cq.CreatedTo != nil {
		q = q.Where("created_at < ?", *cq.CreatedTo)
	}
	if cq.MinRating > 0 {
		q = q.Where("rating >= ?", cq.MinRating)
	}
	if cq.RatedOnly {
		q = q.Where("rating IS NOT NULL")
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}
