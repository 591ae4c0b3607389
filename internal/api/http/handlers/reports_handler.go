package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freight-console/internal/apiclient"
	apperrors "github.com/spec-kit/freight-console/pkg/util"
)

// ReportsHandler serves printable reports.
type ReportsHandler struct {
	reports *apiclient.Reports
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *apiclient.Reports) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// PettyCash GET /api/reports/petty-cash?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *ReportsHandler) PettyCash(c *fiber.Ctx) error {
	from, errFrom := time.Parse("2006-01-02", c.Query("from"))
	to, errTo := time.Parse("2006-01-02", c.Query("to"))
	if errFrom != nil || errTo != nil {
		return apperrors.NewValidationError("from and to must be dates (YYYY-MM-DD)", nil)
	}
	if to.Before(from) {
		return apperrors.NewValidationError("to must not be before from", nil)
	}
	report, err := h.reports.PettyCash(upstreamContext(c), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}
