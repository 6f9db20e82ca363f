package dao

import (
	"context"
	"errors"

	"versu/versu/sources/psql/models"

	"gorm.io/gorm"
)

type PromptDAO struct {
	DB *gorm.DB
}

func NewPromptDAO(db *gorm.DB) *PromptDAO {
	return &PromptDAO{DB: db}
}

type PromptUsage struct {
	PromptName string `json:"promptName"`
	UsageCount int64  `json:"usageCount"`
}

func (dao *PromptDAO) GetPromptByID(ctx context.Context, id string) (*models.Prompt, error) {
	return firstPrompt(dao.DB.WithContext(ctx).Where("id = ?", id))
}

func (dao *PromptDAO) GetPromptByName(ctx context.Context, name string) (*models.Prompt, error) {
	return firstPrompt(dao.DB.WithContext(ctx).Where("name = ?", name))
}

// GetActivePrompt returns the active prompt, preferring the most recently updated one
// should concurrent activations have left more than one flagged.
func (dao *PromptDAO) GetActivePrompt(ctx context.Context) (*models.Prompt, error) {
	return firstPrompt(dao.DB.WithContext(ctx).Where("is_active = ?", true).Order("updated_at DESC"))
}

func firstPrompt(q *gorm.DB) (*models.Prompt, error) {
	var p models.Prompt
	err := q.First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (dao *PromptDAO) ListActivePrompts(ctx context.Context) ([]models.Prompt, error) {
	var prompts []models.Prompt
	err := dao.DB.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&prompts).Error
	if err != nil {
		return nil, err
	}
	return prompts, nil
}

func (dao *PromptDAO) ListPrompts(ctx context.Context, offset, limit int) ([]models.Prompt, int64, error) {
	var total int64
	if err := dao.DB.WithContext(ctx).Model(&models.Prompt{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var prompts []models.Prompt
	err := dao.DB.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&prompts).Error
	if err != nil {
		return nil, 0, err
	}
	return prompts, total, nil
}

// CreatePrompt inserts the prompt; an active prompt deactivates every other one in the
// same transaction.
func (dao *PromptDAO) CreatePrompt(ctx context.Context, p *models.Prompt) error {
	return dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.IsActive {
			if err := deactivateOthers(tx, ""); err != nil {
				return err
			}
		}
		return tx.Create(p).Error
	})
}

// UpdatePrompt applies updates and returns the fresh row, or nil if the prompt does not
// exist. Setting is_active to true deactivates every other prompt.
func (dao *PromptDAO) UpdatePrompt(ctx context.Context, id string, updates map[string]interface{}) (*models.Prompt, error) {
	var updated *models.Prompt
	err := dao.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := firstPrompt(tx.Where("id = ?", id))
		if err != nil || existing == nil {
			return err
		}
		if active, ok := updates["is_active"].(bool); ok && active {
			if err := deactivateOthers(tx, id); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(existing).Updates(updates).Error; err != nil {
				return err
			}
		}
		updated, err = firstPrompt(tx.Where("id = ?", id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (dao *PromptDAO) SetActive(ctx context.Context, id string, active bool) (*models.Prompt, error) {
	return dao.UpdatePrompt(ctx, id, map[string]interface{}{"is_active": active})
}

// UpsertPromptByName is used by seeding; it keeps the row id stable across runs.
func (dao *PromptDAO) UpsertPromptByName(ctx context.Context, p *models.Prompt) error {
	existing, err := dao.GetPromptByName(ctx, p.Name)
	if err != nil {
		return err
	}
	if existing == nil {
		return dao.CreatePrompt(ctx, p)
	}
	updated, err := dao.UpdatePrompt(ctx, existing.ID, map[string]interface{}{
		"description": p.Description,
		"content":     p.Content,
		"is_active":   p.IsActive,
	})
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

// DeletePrompt reports whether a row was removed.
func (dao *PromptDAO) DeletePrompt(ctx context.Context, id string) (bool, error) {
	res := dao.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Prompt{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// PromptUsage counts AI replies per promptUsed value, most used first.
func (dao *PromptDAO) PromptUsage(ctx context.Context, limit int) ([]PromptUsage, error) {
	var stats []PromptUsage
	err := dao.DB.WithContext(ctx).
		Model(&models.Message{}).
		Select("prompt_used AS prompt_name, COUNT(*) AS usage_count").
		Where("prompt_used IS NOT NULL AND role = ?", models.RoleAI).
		Group("prompt_used").
		Order("usage_count DESC").
		Limit(limit).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func deactivateOthers(tx *gorm.DB, keepID string) error {
	q := tx.Model(&models.Prompt{}).Where("is_active = ?", true)
	if keepID != "" {
		q = q.Where("id <> ?", keepID)
	}
	return q.Update("is_active", false).Error
}
