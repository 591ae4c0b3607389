package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventLoggedOut, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventLoggedOut, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventLoggedIn, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLoggedOut})
	if err == nil {
		t.Fatal("expected handler error to surface")
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected handler calls: %v", calls)
	}
}

func TestActorFromIdentityNil(t *testing.T) {
	if got := ActorFromIdentity(nil); got != (Actor{}) {
		t.Fatalf("expected anonymous actor, got %+v", got)
	}
}
