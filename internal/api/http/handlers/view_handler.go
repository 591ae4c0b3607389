package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/freight-console/internal/api/dto"
	"github.com/spec-kit/freight-console/internal/events"
	"github.com/spec-kit/freight-console/internal/gate"
	"github.com/spec-kit/freight-console/internal/observability"
	apperrors "github.com/spec-kit/freight-console/pkg/util"
)

// ViewHandler runs page navigations through the gate and carries out its
// decision: logout and redirect, or serve the shell.
type ViewHandler struct {
	gate       *gate.Gate
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	indexFile  string
}

// NewViewHandler constructs handler. An empty indexFile answers allowed
// navigations with a JSON view descriptor.
func NewViewHandler(g *gate.Gate, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger, indexFile string) *ViewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewHandler{gate: g, dispatcher: dispatcher, metrics: metrics, logger: logger, indexFile: indexFile}
}

// Navigate GET /*.
func (h *ViewHandler) Navigate(c *fiber.Ctx) error {
	store, ok := SessionFrom(c)
	if !ok {
		return apperrors.NewInternalError(nil)
	}
	ctx := c.UserContext()
	target := c.OriginalURL()

	decision := h.gate.Decide(ctx, target, store)
	h.metrics.RecordGateDecision(decision.Outcome.String())

	switch decision.Outcome {
	case gate.NotFound:
		return apperrors.NewNotFound("page", map[string]any{"path": c.Path()})
	case gate.RedirectLogin:
		if decision.ForceLogout {
			if err := store.ForceLogout(ctx, decision.Reason, target); err != nil {
				h.logger.Warn("forced logout failed", zap.String("session_id", store.ID()), zap.Error(err))
			}
		}
		return c.Redirect(decision.Location(), fiber.StatusFound)
	case gate.RedirectUnauthorized:
		h.publishDenied(c, decision)
		return c.Redirect(decision.Location(), fiber.StatusFound)
	}

	if h.indexFile != "" && c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMETextHTML {
		return c.SendFile(h.indexFile)
	}
	leaf := decision.Match.Leaf()
	return c.JSON(fiber.Map{"data": dto.ViewDescriptor{
		Path:   c.Path(),
		View:   leaf.View,
		Params: decision.Match.Params,
		Roles:  decision.Required,
	}})
}

func (h *ViewHandler) publishDenied(c *fiber.Ctx, decision gate.Decision) {
	if h.dispatcher == nil {
		return
	}
	store, _ := SessionFrom(c)
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAccessDenied,
		SessionID: store.ID(),
		Actor:     events.ActorFromIdentity(store.Current()),
		Timestamp: time.Now().UTC(),
		Payload:   events.AccessDeniedPayload{Path: c.Path(), Required: decision.Required},
	}
	if err := h.dispatcher.Publish(c.UserContext(), event); err != nil {
		h.logger.Warn("access denied handler failed", zap.Error(err))
	}
}
