package ws

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"codecrux/domain/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestConnSink_Delivers_In_Order(t *testing.T) {
	req := require.New(t)
	sink := NewConnSink(testLogger(), 4, time.Second)
	ctx := context.Background()

	first := event.AssistantChunk{Room: "lobby", TurnID: uuid.New(), Chunk: "a"}
	second := event.AssistantChunk{Room: "lobby", TurnID: uuid.New(), Chunk: "b"}

	req.NoError(sink.Consume(ctx, first))
	req.NoError(sink.Consume(ctx, second))

	req.Equal(first, <-sink.Events())
	req.Equal(second, <-sink.Events())
}

func TestConnSink_Times_Out_When_Buffer_Is_Full(t *testing.T) {
	req := require.New(t)
	sink := NewConnSink(testLogger(), 1, 20*time.Millisecond)
	ctx := context.Background()

	e := event.AssistantChunk{Room: "lobby", TurnID: uuid.New(), Chunk: "a"}
	req.NoError(sink.Consume(ctx, e))

	// Nobody drains, the buffer is full
	err := sink.Consume(ctx, e)
	req.Error(err)
	req.Contains(err.Error(), "delivery timeout")
}

func TestConnSink_Rejects_After_Close(t *testing.T) {
	req := require.New(t)
	sink := NewConnSink(testLogger(), 4, time.Second)

	sink.Close()

	err := sink.Consume(context.Background(), event.AssistantChunk{Room: "lobby", TurnID: uuid.New(), Chunk: "a"})
	req.Error(err)
	req.Contains(err.Error(), "connection closed")

	// Done is observable by the writer loop
	select {
	case <-sink.Done():
	default:
		t.Fatal("done channel should be closed")
	}
}

func TestConnSink_Close_Is_Idempotent(t *testing.T) {
	sink := NewConnSink(testLogger(), 4, time.Second)
	sink.Close()
	sink.Close()
}

func TestConnSink_Honors_Context_Cancellation(t *testing.T) {
	req := require.New(t)
	sink := NewConnSink(testLogger(), 1, time.Minute)
	e := event.AssistantChunk{Room: "lobby", TurnID: uuid.New(), Chunk: "a"}
	req.NoError(sink.Consume(context.Background(), e))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := sink.Consume(ctx, e)
	req.ErrorIs(err, context.Canceled)
}
