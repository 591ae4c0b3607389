package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freight-console/internal/apiclient"
	apperrors "github.com/spec-kit/freight-console/pkg/util"
)

// LookupsHandler serves reference tables for forms.
type LookupsHandler struct {
	lookups *apiclient.Lookups
}

// NewLookupsHandler constructs handler.
func NewLookupsHandler(lookups *apiclient.Lookups) *LookupsHandler {
	return &LookupsHandler{lookups: lookups}
}

// ChargeCategories GET /api/lookups/charge-categories.
func (h *LookupsHandler) ChargeCategories(c *fiber.Ctx) error {
	rows, err := h.lookups.ChargeCategories(upstreamContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// ChargeSubcategories GET /api/lookups/charge-subcategories?categoryId=.
func (h *LookupsHandler) ChargeSubcategories(c *fiber.Ctx) error {
	categoryID := c.QueryInt("categoryId", 0)
	if categoryID < 0 {
		return apperrors.NewValidationError("invalid categoryId", nil)
	}
	rows, err := h.lookups.ChargeSubcategories(upstreamContext(c), int64(categoryID))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// ChargeStatuses GET /api/lookups/charge-statuses.
func (h *LookupsHandler) ChargeStatuses(c *fiber.Ctx) error {
	rows, err := h.lookups.ChargeStatuses(upstreamContext(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// Configuration GET /api/lookups/configuration/:category.
func (h *LookupsHandler) Configuration(c *fiber.Ctx) error {
	rows, err := h.lookups.Configuration(upstreamContext(c), c.Params("category"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}
