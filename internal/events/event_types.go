package events

import (
	"time"

	"github.com/spec-kit/freight-console/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventLoggedIn     EventType = "session_logged_in"
	EventLoggedOut    EventType = "session_logged_out"
	EventForcedLogout EventType = "session_forced_logout"
	EventAccessDenied EventType = "access_denied"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	AccountID int64  `json:"account_id,omitempty"`
	Role      string `json:"role,omitempty"`
	UserName  string `json:"user_name,omitempty"`
}

// ActorFromIdentity builds an Actor; nil yields an anonymous actor.
func ActorFromIdentity(identity *domain.Identity) Actor {
	if identity == nil {
		return Actor{}
	}
	return Actor{AccountID: identity.AccountID, Role: identity.NormalizedRole(), UserName: identity.UserName}
}

// Event represents a session event emitted by the console.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// ForcedLogoutPayload payload.
type ForcedLogoutPayload struct {
	Reason    string `json:"reason"`
	ReturnURL string `json:"return_url"`
}

// AccessDeniedPayload payload.
type AccessDeniedPayload struct {
	Path     string   `json:"path"`
	Required []string `json:"required"`
}

// Forced logout reasons.
const (
	ReasonMissingToken = "missing_token"
	ReasonTokenExpired = "token_expired"
	ReasonUpstream401  = "upstream_unauthorized"
)
