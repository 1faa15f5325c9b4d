package ws

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"codecrux/domain/event"
)

// ConnSink decouples broadcast delivery from the websocket writer: the
// orchestrator pushes into a bounded channel and the connection's
// writer goroutine drains it. A slow or dead client makes Consume fail
// after deliveryTimeout instead of blocking the whole room.
type ConnSink struct {
	events          chan event.DomainEvent
	done            chan struct{}
	log             *slog.Logger
	deliveryTimeout time.Duration
}

func NewConnSink(log *slog.Logger, bufferSize int, deliveryTimeout time.Duration) *ConnSink {
	return &ConnSink{
		events:          make(chan event.DomainEvent, bufferSize),
		done:            make(chan struct{}),
		log:             log,
		deliveryTimeout: deliveryTimeout,
	}
}

func (s *ConnSink) Consume(ctx context.Context, e event.DomainEvent) error {
	select {
	case <-s.done:
		return fmt.Errorf("connection closed")
	case s.events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.deliveryTimeout):
		return fmt.Errorf("delivery timeout after %s", s.deliveryTimeout)
	}
}

func (s *ConnSink) Events() <-chan event.DomainEvent {
	return s.events
}

func (s *ConnSink) Done() <-chan struct{} {
	return s.done
}

// Close marks the sink dead. The events channel is never closed, late
// broadcasts taken from a registry snapshot simply fail on done.
func (s *ConnSink) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}
