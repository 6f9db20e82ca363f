package controllers

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrPromptNotFound       = errors.New("prompt not found")
	ErrPromptNameTaken      = errors.New("prompt name already in use")
	ErrNoActivePrompt       = errors.New("no active prompt configured")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrDemoDisabled         = errors.New("demo access disabled in production")
	ErrStorageDisabled      = errors.New("avatar storage not configured")
	ErrInvalidAvatar        = errors.New("avatar must be an image")
	ErrAvatarTooLarge       = errors.New("avatar exceeds size limit")
)
