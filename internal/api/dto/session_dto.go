package dto

import (
	"time"

	"github.com/spec-kit/freight-console/internal/domain"
)

// LoginRequest payload for console login.
type LoginRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"rememberMe"`
}

// ForgotPasswordRequest payload.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest payload.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// VerifyEmailRequest payload.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// SessionResponse describes the caller's session.
type SessionResponse struct {
	Authenticated   bool             `json:"authenticated"`
	Identity        *domain.Identity `json:"identity"`
	RememberedEmail string           `json:"rememberedEmail,omitempty"`
	ExpiresAt       *time.Time       `json:"expiresAt,omitempty"`
}
