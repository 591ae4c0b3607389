package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/freight-console/internal/events"
	"github.com/spec-kit/freight-console/internal/observability"
)

// AuditService records session events in the log and in metrics.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, metrics *observability.Metrics) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		metrics:    metrics,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoggedIn, a.handleLoggedIn)
	a.dispatcher.Subscribe(events.EventLoggedOut, a.handleLoggedOut)
	a.dispatcher.Subscribe(events.EventForcedLogout, a.handleForcedLogout)
	a.dispatcher.Subscribe(events.EventAccessDenied, a.handleAccessDenied)
}

func (a *AuditService) handleLoggedIn(ctx context.Context, event events.Event) error {
	a.metrics.RecordSessionEvent(string(event.Type))
	a.logger.Info("SessionLoggedIn", eventFields(event)...)
	return nil
}

func (a *AuditService) handleLoggedOut(ctx context.Context, event events.Event) error {
	a.metrics.RecordSessionEvent(string(event.Type))
	a.logger.Info("SessionLoggedOut", eventFields(event)...)
	return nil
}

func (a *AuditService) handleForcedLogout(ctx context.Context, event events.Event) error {
	a.metrics.RecordSessionEvent(string(event.Type))
	fields := eventFields(event)
	if payload, ok := event.Payload.(events.ForcedLogoutPayload); ok {
		a.metrics.RecordForcedLogout(payload.Reason)
		fields = append(fields, zap.String("reason", payload.Reason), zap.String("return_url", payload.ReturnURL))
	}
	a.logger.Info("SessionForcedLogout", fields...)
	return nil
}

func (a *AuditService) handleAccessDenied(ctx context.Context, event events.Event) error {
	a.metrics.RecordSessionEvent(string(event.Type))
	fields := eventFields(event)
	if payload, ok := event.Payload.(events.AccessDeniedPayload); ok {
		fields = append(fields, zap.String("path", payload.Path), zap.Strings("required", payload.Required))
	}
	a.logger.Warn("AccessDenied", fields...)
	return nil
}

func eventFields(event events.Event) []zap.Field {
	return []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("session_id", event.SessionID),
		zap.Int64("account_id", event.Actor.AccountID),
		zap.String("role", event.Actor.Role),
		zap.String("user_name", event.Actor.UserName),
		zap.Time("at", event.Timestamp),
	}
}
