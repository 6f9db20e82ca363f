package types

type CreatePromptRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	Content     string  `json:"content" validate:"required,min=10,max=4000"`
	IsActive    bool    `json:"isActive"`
}

// UpdatePromptRequest only touches fields present in the body.
type UpdatePromptRequest struct {
	Name        *string        `json:"name" validate:"omitempty,min=2,max=100"`
	Description NullableString `json:"description" validate:"omitempty,max=500"`
	Content     *string        `json:"content" validate:"omitempty,min=10,max=4000"`
	IsActive    *bool          `json:"isActive"`
}

type TogglePromptRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type PromptQuery struct {
	Page  int `validate:"min=1"`
	Limit int `validate:"min=1,max=100"`
}
