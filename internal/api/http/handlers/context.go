package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freight-console/internal/apiclient"
	"github.com/spec-kit/freight-console/internal/session"
)

const sessionLocalKey = "console_session"

// SetSession binds the caller's session store to the request.
func SetSession(c *fiber.Ctx, s *session.Store) {
	c.Locals(sessionLocalKey, s)
}

// SessionFrom returns the store bound by the session middleware.
func SessionFrom(c *fiber.Ctx) (*session.Store, bool) {
	s, ok := c.Locals(sessionLocalKey).(*session.Store)
	return s, ok && s != nil
}

// upstreamContext returns the context for back-office calls made on behalf of
// the caller's session.
func upstreamContext(c *fiber.Ctx) context.Context {
	return c.UserContext()
}

// anonymousContext drops the session so a failed call cannot log anyone out.
func anonymousContext(c *fiber.Ctx) context.Context {
	return apiclient.WithSession(c.UserContext(), nil)
}
