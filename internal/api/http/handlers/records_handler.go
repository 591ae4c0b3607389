package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freight-console/internal/apiclient"
	apperrors "github.com/spec-kit/freight-console/pkg/util"
)

var reservedListParams = map[string]struct{}{"page": {}, "pageSize": {}, "search": {}}

// RecordHandler forwards CRUD calls for one back-office group.
type RecordHandler[T any] struct {
	resource *apiclient.Resource[T]
}

// NewRecordHandler constructs handler.
func NewRecordHandler[T any](resource *apiclient.Resource[T]) *RecordHandler[T] {
	return &RecordHandler[T]{resource: resource}
}

// List GET /api/<group>. Unknown query parameters are forwarded as filters.
func (h *RecordHandler[T]) List(c *fiber.Ctx) error {
	q := apiclient.ListQuery{Search: c.Query("search"), Filters: map[string]string{}}
	var err error
	if q.Page, err = optionalInt(c.Query("page")); err != nil {
		return apperrors.NewValidationError("invalid page", nil)
	}
	if q.PageSize, err = optionalInt(c.Query("pageSize")); err != nil {
		return apperrors.NewValidationError("invalid pageSize", nil)
	}
	for k, v := range c.Queries() {
		if _, reserved := reservedListParams[k]; !reserved {
			q.Filters[k] = v
		}
	}

	page, err := h.resource.List(upstreamContext(c), q)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": page.Items, "meta": fiber.Map{
		"total":    page.Total,
		"page":     page.Page,
		"pageSize": page.PageSize,
	}})
}

// Get GET /api/<group>/:id.
func (h *RecordHandler[T]) Get(c *fiber.Ctx) error {
	record, err := h.resource.Get(upstreamContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

// Create POST /api/<group>.
func (h *RecordHandler[T]) Create(c *fiber.Ctx) error {
	var payload T
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	record, err := h.resource.Create(upstreamContext(c), payload)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": record})
}

// Update PUT /api/<group>/:id.
func (h *RecordHandler[T]) Update(c *fiber.Ctx) error {
	var payload T
	if err := bindJSON(c, &payload); err != nil {
		return err
	}
	record, err := h.resource.Update(upstreamContext(c), c.Params("id"), payload)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": record})
}

// Delete DELETE /api/<group>/:id.
func (h *RecordHandler[T]) Delete(c *fiber.Ctx) error {
	if err := h.resource.Delete(upstreamContext(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func optionalInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.NewValidationError("invalid number", nil)
	}
	return n, nil
}
