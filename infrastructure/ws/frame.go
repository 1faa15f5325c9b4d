package ws

import (
	"encoding/json"
	"time"

	"codecrux/domain/event"
)

// Wire events mirror the browser client: join-room and chat-message
// inbound, user-message / ai-message-chunk / chat-error outbound.
const (
	EventJoinRoom    = "join-room"
	EventChatMessage = "chat-message"
	EventUserMessage = "user-message"
	EventChunk       = "ai-message-chunk"
	EventChatError   = "chat-error"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type joinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type historyEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatMessagePayload struct {
	RoomID  string         `json:"roomId" validate:"required"`
	Message string         `json:"message" validate:"required"`
	History []historyEntry `json:"history" validate:"dive"`
}

type userMessagePayload struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type chunkPayload struct {
	Chunk        string     `json:"chunk"`
	Done         bool       `json:"done"`
	FullResponse string     `json:"fullResponse,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// toFrame maps a domain event to its wire shape. Events without a wire
// representation report ok=false and are skipped by the writer.
func toFrame(e event.DomainEvent) (outFrame, bool) {
	switch evt := e.(type) {
	case event.UserMessagePosted:
		return outFrame{Event: EventUserMessage, Data: userMessagePayload{
			Role:      "user",
			Content:   evt.Content,
			Timestamp: evt.At,
		}}, true
	case event.AssistantChunk:
		return outFrame{Event: EventChunk, Data: chunkPayload{
			Chunk: evt.Chunk,
			Done:  false,
		}}, true
	case event.TurnCompleted:
		at := evt.At
		return outFrame{Event: EventChunk, Data: chunkPayload{
			Chunk:        "",
			Done:         true,
			FullResponse: evt.FullResponse,
			Timestamp:    &at,
		}}, true
	case event.TurnFailed:
		return outFrame{Event: EventChatError, Data: errorPayload{
			Error: evt.Reason,
		}}, true
	default:
		return outFrame{}, false
	}
}
