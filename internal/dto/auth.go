package dto

import (
	"strings"
	"time"
)

// RegisterRequest represents the request to register a new user
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required"`
}

// Validate validates the RegisterRequest
func (r *RegisterRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if len(strings.TrimSpace(r.Name)) < 2 {
		errs.Add("name", "name must be at least 2 characters")
	}
	if strings.TrimSpace(r.Email) == "" {
		errs.Add("email", "email is required")
	}
	validatePassword(errs, "password", r.Password)
	return errs.OrNil()
}

// LoginRequest represents the request to log in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Validate validates the LoginRequest
func (r *LoginRequest) Validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(r.Email) == "" {
		errs.Add("email", "email is required")
	}
	if r.Password == "" {
		errs.Add("password", "password is required")
	}
	return errs.OrNil()
}

// AuthResponse carries an issued token and the authenticated user
type AuthResponse struct {
	Token     string        `json:"token"`
	ExpiresAt string        `json:"expiresAt"`
	User      *UserResponse `json:"user"`
}

// NewAuthResponse builds an AuthResponse
func NewAuthResponse(token string, expiresAt time.Time, user *UserResponse) *AuthResponse {
	return &AuthResponse{
		Token:     token,
		ExpiresAt: formatTime(expiresAt),
		User:      user,
	}
}
