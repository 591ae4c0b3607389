package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freight-console/internal/navigation"
)

// NavigationHandler serves the sidebar menu.
type NavigationHandler struct {
	menu *navigation.Menu
}

// NewNavigationHandler constructs handler.
func NewNavigationHandler(menu *navigation.Menu) *NavigationHandler {
	return &NavigationHandler{menu: menu}
}

// Menu GET /api/navigation. Anonymous callers see only unrestricted entries.
func (h *NavigationHandler) Menu(c *fiber.Ctx) error {
	role := ""
	if store, ok := SessionFrom(c); ok {
		if identity := store.Current(); identity != nil {
			role = identity.Role
		}
	}
	return c.JSON(fiber.Map{"data": h.menu.For(role)})
}
