package types

import "versu/versu/sources/psql/models"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=100"`
	Avatar *string `json:"avatar" validate:"omitempty,url"`
}

type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}
