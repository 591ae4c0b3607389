package service

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/freight-console/internal/events"
	"github.com/spec-kit/freight-console/internal/observability"
)

func TestAuditServiceLogsEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	audit := NewAuditService(dispatcher, zap.New(core), observability.NewMetrics(prometheus.NewRegistry()))
	audit.RegisterHandlers()

	ctx := context.Background()
	actor := events.Actor{AccountID: 7, Role: "admin", UserName: "jdoe"}
	published := []events.Event{
		{ID: "1", Type: events.EventLoggedIn, SessionID: "s", Actor: actor, Timestamp: time.Now()},
		{ID: "2", Type: events.EventForcedLogout, SessionID: "s", Actor: actor, Timestamp: time.Now(),
			Payload: events.ForcedLogoutPayload{Reason: events.ReasonTokenExpired, ReturnURL: "/jobs"}},
		{ID: "3", Type: events.EventAccessDenied, SessionID: "s", Actor: actor, Timestamp: time.Now(),
			Payload: events.AccessDeniedPayload{Path: "/users", Required: []string{"admin"}}},
		{ID: "4", Type: events.EventLoggedOut, SessionID: "s", Actor: actor, Timestamp: time.Now()},
	}
	for _, e := range published {
		if err := dispatcher.Publish(ctx, e); err != nil {
			t.Fatalf("Publish(%s): %v", e.Type, err)
		}
	}

	want := []string{"SessionLoggedIn", "SessionForcedLogout", "AccessDenied", "SessionLoggedOut"}
	entries := logs.All()
	if len(entries) != len(want) {
		t.Fatalf("got %d log entries, want %d", len(entries), len(want))
	}
	for i, msg := range want {
		if entries[i].Message != msg {
			t.Fatalf("entry %d = %q, want %q", i, entries[i].Message, msg)
		}
	}
	if reason := entries[1].ContextMap()["reason"]; reason != events.ReasonTokenExpired {
		t.Fatalf("forced logout reason = %v", reason)
	}
	if entries[2].Level != zapcore.WarnLevel {
		t.Fatalf("access denied logged at %s", entries[2].Level)
	}
}

func TestAuditServiceWithoutDispatcher(t *testing.T) {
	NewAuditService(nil, nil, nil).RegisterHandlers()
}
