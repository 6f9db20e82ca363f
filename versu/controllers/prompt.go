package controllers

import (
	"context"
	"fmt"

	"versu/versu/sources/psql/dao"
	"versu/versu/sources/psql/models"
	"versu/versu/utils/types"
)

const usageStatsLimit = 10

type PromptController struct {
	prompts *dao.PromptDAO
}

func NewPromptController(prompts *dao.PromptDAO) *PromptController {
	return &PromptController{prompts: prompts}
}

func (c *PromptController) ListActive(ctx context.Context) ([]models.Prompt, error) {
	prompts, err := c.prompts.ListActivePrompts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active prompts: %w", err)
	}
	return prompts, nil
}

func (c *PromptController) List(ctx context.Context, q types.PromptQuery) (*types.Page[models.Prompt], error) {
	prompts, total, err := c.prompts.ListPrompts(ctx, types.Offset(q.Page, q.Limit), q.Limit)
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return &types.Page[models.Prompt]{Data: prompts, Pagination: types.NewPagination(q.Page, q.Limit, total)}, nil
}

func (c *PromptController) Get(ctx context.Context, id string) (*models.Prompt, error) {
	p, err := c.prompts.GetPromptByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	if p == nil {
		return nil, ErrPromptNotFound
	}
	return p, nil
}

func (c *PromptController) Create(ctx context.Context, req types.CreatePromptRequest) (*models.Prompt, error) {
	existing, err := c.prompts.GetPromptByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("check prompt name: %w", err)
	}
	if existing != nil {
		return nil, ErrPromptNameTaken
	}
	p := &models.Prompt{
		Name:        req.Name,
		Description: req.Description,
		Content:     req.Content,
		IsActive:    req.IsActive,
	}
	if err := c.prompts.CreatePrompt(ctx, p); err != nil {
		return nil, fmt.Errorf("create prompt: %w", err)
	}
	return p, nil
}

func (c *PromptController) Update(ctx context.Context, id string, req types.UpdatePromptRequest) (*models.Prompt, error) {
	existing, err := c.prompts.GetPromptByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get prompt: %w", err)
	}
	if existing == nil {
		return nil, ErrPromptNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil && *req.Name != existing.Name {
		taken, err := c.prompts.GetPromptByName(ctx, *req.Name)
		if err != nil {
			return nil, fmt.Errorf("check prompt name: %w", err)
		}
		if taken != nil {
			return nil, ErrPromptNameTaken
		}
		updates["name"] = *req.Name
	}
	if req.Description.Set {
		if req.Description.Value == nil {
			updates["description"] = nil
		} else {
			updates["description"] = *req.Description.Value
		}
	}
	if req.Content != nil {
		updates["content"] = *req.Content
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	p, err := c.prompts.UpdatePrompt(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("update prompt: %w", err)
	}
	if p == nil {
		return nil, ErrPromptNotFound
	}
	return p, nil
}

func (c *PromptController) Delete(ctx context.Context, id string) error {
	deleted, err := c.prompts.DeletePrompt(ctx, id)
	if err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}
	if !deleted {
		return ErrPromptNotFound
	}
	return nil
}

// Toggle activates or deactivates a prompt. Activation deactivates every other prompt.
func (c *PromptController) Toggle(ctx context.Context, id string, active bool) (*models.Prompt, error) {
	p, err := c.prompts.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("toggle prompt: %w", err)
	}
	if p == nil {
		return nil, ErrPromptNotFound
	}
	return p, nil
}

func (c *PromptController) UsageStats(ctx context.Context) ([]dao.PromptUsage, error) {
	stats, err := c.prompts.PromptUsage(ctx, usageStatsLimit)
	if err != nil {
		return nil, fmt.Errorf("prompt usage: %w", err)
	}
	if stats == nil {
		stats = []dao.PromptUsage{}
	}
	return stats, nil
}
