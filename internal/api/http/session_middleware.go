package http

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/spec-kit/freight-console/internal/api/http/handlers"
	"github.com/spec-kit/freight-console/internal/apiclient"
	"github.com/spec-kit/freight-console/internal/session"
)

// LocationHeader carries the shell's current page on API calls.
const LocationHeader = "X-Console-Location"

// SessionMiddlewareConfig configures the console session cookie.
type SessionMiddlewareConfig struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// sessionMiddleware resolves the caller's console session from its cookie,
// issuing a new id when the cookie is absent or malformed.
func sessionMiddleware(registry *session.Registry, cfg SessionMiddlewareConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Cookies(cfg.CookieName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
			cookie := &fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    id,
				Path:     "/",
				HTTPOnly: true,
				Secure:   cfg.Secure,
				SameSite: fiber.CookieSameSiteLaxMode,
			}
			if cfg.MaxAge > 0 {
				cookie.MaxAge = int(cfg.MaxAge.Seconds())
			}
			c.Cookie(cookie)
		}

		ctx := c.UserContext()
		store := registry.Get(ctx, id)
		handlers.SetSession(c, store)

		ctx = apiclient.WithSession(ctx, store)
		ctx = apiclient.WithLocation(ctx, currentLocation(c))
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// currentLocation is the page the user is looking at: the explicit header from
// the shell, else the referer's path.
func currentLocation(c *fiber.Ctx) string {
	if loc := c.Get(LocationHeader); loc != "" {
		return loc
	}
	if ref := c.Get(fiber.HeaderReferer); ref != "" {
		if u, err := url.Parse(ref); err == nil && u.Path != "" {
			return u.RequestURI()
		}
	}
	return ""
}
