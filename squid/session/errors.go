package session

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrEmptyPage          = errors.New("page is required")
	ErrEmptyAction        = errors.New("action is required")
	ErrInvalidPreferences = errors.New("invalid preferences")
)
