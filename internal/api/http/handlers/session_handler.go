package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freight-console/internal/api/dto"
	"github.com/spec-kit/freight-console/internal/apiclient"
	"github.com/spec-kit/freight-console/internal/auth"
	"github.com/spec-kit/freight-console/internal/domain"
	"github.com/spec-kit/freight-console/internal/session"
	apperrors "github.com/spec-kit/freight-console/pkg/util"
)

// SessionHandler exposes login, logout and the current session.
type SessionHandler struct {
	auth      *apiclient.Auth
	validator *auth.TokenValidator
}

// NewSessionHandler constructs handler.
func NewSessionHandler(authClient *apiclient.Auth, validator *auth.TokenValidator) *SessionHandler {
	return &SessionHandler{auth: authClient, validator: validator}
}

// Login POST /api/session/login.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	store, ok := SessionFrom(c)
	if !ok {
		return apperrors.NewInternalError(nil)
	}
	var req dto.LoginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if _, err := store.Login(anonymousContext(c), domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
		Remember: req.RememberMe,
	}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.describe(c, store)})
}

// Logout POST /api/session/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	store, ok := SessionFrom(c)
	if !ok {
		return apperrors.NewInternalError(nil)
	}
	if err := store.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.describe(c, store)})
}

// Refresh POST /api/session/refresh.
func (h *SessionHandler) Refresh(c *fiber.Ctx) error {
	store, ok := SessionFrom(c)
	if !ok {
		return apperrors.NewInternalError(nil)
	}
	if _, err := store.Refresh(upstreamContext(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": h.describe(c, store)})
}

// Me GET /api/session/me.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	store, ok := SessionFrom(c)
	if !ok {
		return apperrors.NewInternalError(nil)
	}
	return c.JSON(fiber.Map{"data": h.describe(c, store)})
}

// ForgotPassword POST /api/session/forgot-password.
func (h *SessionHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.auth.ForgotPassword(anonymousContext(c), req.Email); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": fiber.Map{"status": "sent"}})
}

// ResetPassword POST /api/session/reset-password.
func (h *SessionHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.auth.ResetPassword(anonymousContext(c), apiclient.ResetPasswordRequest{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "reset"}})
}

// VerifyEmail POST /api/session/verify-email.
func (h *SessionHandler) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := h.auth.VerifyEmail(anonymousContext(c), req.Token); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "verified"}})
}

func (h *SessionHandler) describe(c *fiber.Ctx, store *session.Store) dto.SessionResponse {
	ctx := c.UserContext()
	resp := dto.SessionResponse{
		Authenticated:   store.IsAuthenticated(ctx),
		Identity:        store.Current(),
		RememberedEmail: store.RememberedEmail(ctx),
	}
	if token, err := store.Token(ctx); err == nil && token != "" {
		if exp, ok := h.validator.ExpiresAt(token); ok {
			resp.ExpiresAt = &exp
		}
	}
	return resp
}
