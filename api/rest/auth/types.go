package auth

import (
	"codeberg.org/squidlabs/server/squid/preferences"
	"codeberg.org/squidlabs/server/squid/users"
)

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterResponse returned after successful registration
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// LoginResponse returned after successful login
type LoginResponse struct {
	Message     string                  `json:"message"`
	Preferences preferences.Preferences `json:"preferences"`
	Token       string                  `json:"token"`
}

// UserResponse wraps the current user's profile
type UserResponse struct {
	User *users.User `json:"user"`
}
