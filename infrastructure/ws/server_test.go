package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codecrux/domain"
	"codecrux/genai"
	"codecrux/mocks"
	"codecrux/runtime"
	"codecrux/services"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type stubGenerator struct {
	chunks []string
}

func (g stubGenerator) Generate(ctx context.Context, prompt string, opts genai.Options) (string, error) {
	return strings.Join(g.chunks, ""), nil
}

func (g stubGenerator) GenerateStream(ctx context.Context, prompt string, opts genai.Options, onChunk func(string)) (string, error) {
	for _, c := range g.chunks {
		onChunk(c)
	}
	return strings.Join(g.chunks, ""), nil
}

func newTestServer(t *testing.T, generator stubGenerator) *httptest.Server {
	t.Helper()
	registry := runtime.NewRegistry()
	orchestrator := runtime.NewOrchestrator(testLogger(), registry, generator, genai.Options{})
	chatService := services.NewChatService(orchestrator, registry, nil, nil)

	handler := NewHandler(context.Background(), chatService, testLogger(), 16, time.Second)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func send(t *testing.T, conn *websocket.Conn, eventName string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(frame{Event: eventName, Data: raw}))
}

func read(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestHandler_Full_Turn_Over_Websocket(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, stubGenerator{chunks: []string{"Hel", "lo"}})
	conn := dial(t, server)

	// Given a joined room, bare-string form
	send(t, conn, EventJoinRoom, "lobby")

	// When a chat message is sent
	send(t, conn, EventChatMessage, chatMessagePayload{RoomID: "lobby", Message: "hi"})

	// Then the user echo comes first
	f := read(t, conn)
	req.Equal(EventUserMessage, f.Event)
	var echo userMessagePayload
	req.NoError(json.Unmarshal(f.Data, &echo))
	req.Equal("user", echo.Role)
	req.Equal("hi", echo.Content)

	// Then the chunks stream in order
	var streamed []string
	var last chunkPayload
	for {
		f = read(t, conn)
		req.Equal(EventChunk, f.Event)
		var p chunkPayload
		req.NoError(json.Unmarshal(f.Data, &p))
		if p.Done {
			last = p
			break
		}
		streamed = append(streamed, p.Chunk)
	}
	req.Equal([]string{"Hel", "lo"}, streamed)

	// And the terminal record carries the aggregate
	req.Equal("", last.Chunk)
	req.Equal("Hello", last.FullResponse)
	req.NotNil(last.Timestamp)
}

func TestHandler_Blank_Message_Yields_Chat_Error(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, stubGenerator{})
	conn := dial(t, server)

	send(t, conn, EventJoinRoom, joinRoomPayload{RoomID: "lobby"})
	send(t, conn, EventChatMessage, chatMessagePayload{RoomID: "lobby", Message: "   "})

	f := read(t, conn)
	req.Equal(EventChatError, f.Event)
	var p errorPayload
	req.NoError(json.Unmarshal(f.Data, &p))
	req.Contains(p.Error, "required")
}

func TestHandler_Malformed_Payload_Yields_Chat_Error(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, stubGenerator{})
	conn := dial(t, server)

	send(t, conn, EventJoinRoom, "lobby")

	// Message field missing entirely
	send(t, conn, EventChatMessage, map[string]string{"roomId": "lobby"})

	f := read(t, conn)
	req.Equal(EventChatError, f.Event)
}

func TestHandler_Unknown_Events_Are_Ignored(t *testing.T) {
	req := require.New(t)
	server := newTestServer(t, stubGenerator{chunks: []string{"ok"}})
	conn := dial(t, server)

	send(t, conn, EventJoinRoom, "lobby")
	send(t, conn, "ping", "whatever")

	// The connection stays usable
	send(t, conn, EventChatMessage, chatMessagePayload{RoomID: "lobby", Message: "hi"})
	f := read(t, conn)
	req.Equal(EventUserMessage, f.Event)
}

func TestHandler_Disconnect_Leaves_Every_Joined_Room(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	chatService := mocks.NewMockIChatService(ctrl)

	left := make(chan domain.RoomID, 2)
	chatService.EXPECT().JoinRoom(gomock.Any(), domain.RoomID("room-a"), gomock.Any())
	chatService.EXPECT().JoinRoom(gomock.Any(), domain.RoomID("room-b"), gomock.Any())
	chatService.EXPECT().LeaveRoom(gomock.Any(), gomock.Any()).
		Do(func(_ string, roomID domain.RoomID) { left <- roomID }).
		Times(2)

	handler := NewHandler(context.Background(), chatService, testLogger(), 16, time.Second)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	conn := dial(t, server)

	// Given a connection subscribed to two rooms
	send(t, conn, EventJoinRoom, "room-a")
	send(t, conn, EventJoinRoom, "room-b")

	// When the client disconnects
	req.NoError(conn.Close())

	// Then membership in both rooms is released
	leftRooms := make(map[domain.RoomID]struct{})
	for range 2 {
		select {
		case roomID := <-left:
			leftRooms[roomID] = struct{}{}
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for rooms to be left")
		}
	}
	req.Contains(leftRooms, domain.RoomID("room-a"))
	req.Contains(leftRooms, domain.RoomID("room-b"))
}

func TestDecodeRoomID(t *testing.T) {
	req := require.New(t)

	roomID, err := decodeRoomID(json.RawMessage(`"lobby"`))
	req.NoError(err)
	req.EqualValues("lobby", roomID)

	roomID, err = decodeRoomID(json.RawMessage(`{"roomId":"lobby"}`))
	req.NoError(err)
	req.EqualValues("lobby", roomID)

	_, err = decodeRoomID(json.RawMessage(`{}`))
	req.Error(err)

	_, err = decodeRoomID(json.RawMessage(`42`))
	req.Error(err)
}
