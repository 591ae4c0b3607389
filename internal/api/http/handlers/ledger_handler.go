package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freight-console/internal/api/dto"
	"github.com/spec-kit/freight-console/internal/domain"
	"github.com/spec-kit/freight-console/internal/service"
	apperrors "github.com/spec-kit/freight-console/pkg/util"
)

// LedgerHandler serves the resource and ICTSI ledger screens.
type LedgerHandler struct {
	service *service.LedgerService
}

// NewLedgerHandler constructs handler.
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: ledgerService}
}

// Accounts GET /api/ledgers/:kind/accounts.
func (h *LedgerHandler) Accounts(c *fiber.Ctx) error {
	overview, err := h.service.Overview(upstreamContext(c), domain.LedgerKind(c.Params("kind")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}

// Statement GET /api/ledgers/:kind/accounts/:id/statement.
func (h *LedgerHandler) Statement(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return apperrors.NewValidationError("invalid account id", nil)
	}
	statement, err := h.service.Statement(upstreamContext(c), domain.LedgerKind(c.Params("kind")), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": statement})
}

// CreateTransaction POST /api/ledgers/:kind/transactions.
func (h *LedgerHandler) CreateTransaction(c *fiber.Ctx) error {
	var req dto.CreateLedgerTransactionRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	tx, err := h.service.RecordTransaction(upstreamContext(c), domain.LedgerKind(c.Params("kind")), req.ToDomain())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": tx})
}
