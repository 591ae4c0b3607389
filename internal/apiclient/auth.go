package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spec-kit/freight-console/internal/domain"
)

// Auth wraps the back office's auth group.
type Auth struct {
	client *Client
}

// NewAuth binds the auth group to client.
func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginToken struct {
	Token string `json:"token"`
}

type tokenPayload struct {
	Token string `json:"token" validate:"required"`
}

// ResetPasswordRequest completes a forgot-password flow.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// Login exchanges credentials for a token and identity.
// Rejected credentials come back as a BusinessError, not an AuthError.
// An accepted answer without a token yields an empty result and no error;
// the session store treats that as a failed login.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error) {
	const op = "POST auth/login"
	var raw json.RawMessage
	err := a.client.call(ctx, http.MethodPost, "auth/login", nil, loginRequest{Email: creds.Email, Password: creds.Password}, &raw)
	if err != nil {
		var authErr *AuthError
		if errors.As(err, &authErr) {
			return domain.LoginResult{}, &BusinessError{StatusCode: http.StatusUnauthorized, Message: "invalid email or password"}
		}
		return domain.LoginResult{}, err
	}

	var token loginToken
	if err := json.Unmarshal(raw, &token); err != nil {
		return domain.LoginResult{}, &TransportError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
	}
	if strings.TrimSpace(token.Token) == "" {
		return domain.LoginResult{}, nil
	}

	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return domain.LoginResult{}, &TransportError{Op: op, Err: fmt.Errorf("decode data: %w", err)}
	}
	if err := a.client.Validate(&identity); err != nil {
		return domain.LoginResult{}, &TransportError{Op: op, Err: fmt.Errorf("invalid payload: %w", err)}
	}
	return domain.LoginResult{Token: token.Token, Identity: identity}, nil
}

// Refresh trades token for a fresh one.
func (a *Auth) Refresh(ctx context.Context, token string) (string, error) {
	var payload tokenPayload
	if err := a.client.call(ctx, http.MethodPost, "auth/refresh", nil, tokenPayload{Token: token}, &payload); err != nil {
		return "", err
	}
	return payload.Token, nil
}

// ForgotPassword asks the back office to mail a reset link.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	return a.client.call(ctx, http.MethodPost, "auth/forgot-password", nil, map[string]string{"email": email}, nil)
}

// ResetPassword sets a new password using a reset token.
func (a *Auth) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return a.client.call(ctx, http.MethodPost, "auth/reset-password", nil, req, nil)
}

// VerifyEmail confirms an address using the mailed token.
func (a *Auth) VerifyEmail(ctx context.Context, token string) error {
	return a.client.call(ctx, http.MethodPost, "auth/verify-email", nil, tokenPayload{Token: token}, nil)
}
