package event

import (
	"time"

	"codecrux/domain"

	"github.com/google/uuid"
)

type DomainEvent interface {
	RoomID() domain.RoomID
}

// UserMessagePosted echoes a validated (and censored) user message to
// every member of the room before generation starts.
type UserMessagePosted struct {
	Room     string
	TurnID   uuid.UUID
	SenderID string
	Content  string
	At       time.Time
}

func (e UserMessagePosted) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// AssistantChunk carries one incremental fragment of the streamed reply.
type AssistantChunk struct {
	Room   string
	TurnID uuid.UUID
	Chunk  string
}

func (e AssistantChunk) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// TurnCompleted terminates a turn. Emitted exactly once, strictly after
// every AssistantChunk of the same turn. FullResponse is the in-order
// concatenation of all chunks.
type TurnCompleted struct {
	Room         string
	TurnID       uuid.UUID
	FullResponse string
	At           time.Time
}

func (e TurnCompleted) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}

// TurnFailed is delivered to the initiating connection only, never
// broadcast. A failed turn emits no TurnCompleted.
type TurnFailed struct {
	Room   string
	TurnID uuid.UUID
	Reason string
}

func (e TurnFailed) RoomID() domain.RoomID {
	return domain.RoomID(e.Room)
}
