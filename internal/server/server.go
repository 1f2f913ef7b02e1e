package server

import (
	"context"
	"log/slog"

	"github.com/groblegark/commtrack/internal/events"
	"github.com/groblegark/commtrack/internal/store"
)

// CommServer serves the communication tracker HTTP API.
type CommServer struct {
	store     store.Store
	publisher events.Publisher
	sseHub    *sseHub
}

// NewCommServer returns a new CommServer backed by the given store and publisher.
func NewCommServer(s store.Store, p events.Publisher) *CommServer {
	return &CommServer{
		store:     s,
		publisher: p,
		sseHub:    newSSEHub(),
	}
}

// publish emits an event to NATS and fans it out to connected SSE clients.
// Both paths are best-effort; failures are logged but do not block the caller.
func (s *CommServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
	s.broadcastEvent(topic, event)
}

// inputError indicates invalid user input.
// The HTTP layer maps this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }
