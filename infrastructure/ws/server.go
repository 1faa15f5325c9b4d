// Package ws is the room-broadcast transport of the relay: one
// websocket connection per client, socket.io-style event frames.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"codecrux/domain"
	"codecrux/domain/chat"
	"codecrux/domain/event"
	"codecrux/services"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/samber/lo"
)

var validate = validator.New()

type Handler struct {
	baseCtx         context.Context
	chatService     services.IChatService
	log             *slog.Logger
	bufferSize      int
	deliveryTimeout time.Duration
	upgrader        websocket.Upgrader
}

// NewHandler builds the websocket endpoint. baseCtx bounds in-flight
// turns to the server lifetime, not to the initiating connection: a
// disconnect leaves the room but never cancels a running generation.
func NewHandler(baseCtx context.Context, chatService services.IChatService,
	log *slog.Logger, bufferSize int, deliveryTimeout time.Duration) *Handler {
	return &Handler{
		baseCtx:         baseCtx,
		chatService:     chatService,
		log:             log,
		bufferSize:      bufferSize,
		deliveryTimeout: deliveryTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "error", err)
		return
	}
	h.serveConn(conn)
}

func (h *Handler) serveConn(conn *websocket.Conn) {
	connectionID := uuid.NewString()
	sink := NewConnSink(h.log, h.bufferSize, h.deliveryTimeout)
	joinedRooms := make(map[domain.RoomID]struct{})

	defer func() {
		sink.Close()
		for roomID := range joinedRooms {
			h.chatService.LeaveRoom(connectionID, roomID)
		}
		_ = conn.Close()
		h.log.Debug("Connection closed", "connection_id", connectionID, "rooms", len(joinedRooms))
	}()

	go h.writeLoop(conn, sink, connectionID)

	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn("Read failed", "connection_id", connectionID, "error", err)
			}
			return
		}

		switch f.Event {
		case EventJoinRoom:
			roomID, err := decodeRoomID(f.Data)
			if err != nil {
				h.log.Warn("Malformed join-room payload", "connection_id", connectionID, "error", err)
				continue
			}
			h.chatService.JoinRoom(connectionID, roomID, sink)
			joinedRooms[roomID] = struct{}{}
			h.log.Info("Connection joined room", "connection_id", connectionID, "room", roomID)

		case EventChatMessage:
			h.handleChatMessage(f.Data, connectionID, sink)

		default:
			h.log.Debug("Ignoring unknown event", "event", f.Event)
		}
	}
}

// handleChatMessage starts a turn without blocking the read loop, so a
// client can keep joining rooms or disconnect while generation runs.
func (h *Handler) handleChatMessage(data json.RawMessage, connectionID string, sink *ConnSink) {
	var payload chatMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.failInitiator(sink, fmt.Sprintf("malformed chat-message payload: %v", err))
		return
	}
	if err := validate.Struct(payload); err != nil {
		h.failInitiator(sink, err.Error())
		return
	}

	cmd := chat.TurnCommand{
		Room:     payload.RoomID,
		SenderID: connectionID,
		Content:  payload.Message,
		History:  toHistory(payload.History),
	}

	go func() {
		// The orchestrator reports failures to the initiator sink itself.
		if err := h.chatService.RunTurn(h.baseCtx, cmd, sink); err != nil {
			h.log.Debug("Turn ended in error", "room", cmd.Room, "error", err)
		}
	}()
}

func (h *Handler) writeLoop(conn *websocket.Conn, sink *ConnSink, connectionID string) {
	for {
		select {
		case <-sink.Done():
			return
		case evt := <-sink.Events():
			out, ok := toFrame(evt)
			if !ok {
				continue
			}
			if err := conn.WriteJSON(out); err != nil {
				h.log.Warn("Write failed, dropping connection",
					"connection_id", connectionID, "error", err)
				sink.Close()
				_ = conn.Close()
				return
			}
		}
	}
}

// failInitiator reports a turn-scoped failure to this connection only.
func (h *Handler) failInitiator(sink *ConnSink, reason string) {
	err := sink.Consume(h.baseCtx, event.TurnFailed{Reason: reason})
	if err != nil {
		h.log.Warn("Could not deliver error to initiator", "error", err)
	}
}

// decodeRoomID accepts both the bare-string form the browser client
// emits and the object form {"roomId": "..."}.
func decodeRoomID(data json.RawMessage) (domain.RoomID, error) {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil && raw != "" {
		return domain.RoomID(raw), nil
	}
	var payload joinRoomPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", err
	}
	if payload.RoomID == "" {
		return "", fmt.Errorf("roomId is required")
	}
	return domain.RoomID(payload.RoomID), nil
}

func toHistory(entries []historyEntry) domain.History {
	return lo.Map(entries, func(item historyEntry, _ int) domain.Message {
		return domain.Message{
			Role:    domain.Role(item.Role),
			Content: item.Content,
		}
	})
}
