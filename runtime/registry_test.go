package runtime

import (
	"context"
	"testing"

	"codecrux/domain"
	"codecrux/domain/event"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Sink struct {
}

func (s Sink) Consume(ctx context.Context, e event.DomainEvent) error {
	return nil
}

func TestRegistry_Subscribe_One_Room_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	roomID := domain.RoomID("lobby")
	sink := Sink{}

	// Given no connection exists
	// And no room exists
	req.Empty(registry.Sessions)
	req.Empty(registry.RoomMembers)

	// When a connection joins a room
	registry.Subscribe(connectionID, roomID, sink)

	// Then
	req.Len(registry.Sessions, 1)
	req.Equal(sink, registry.Sessions[connectionID])

	req.Len(registry.RoomMembers, 1)
	req.Contains(registry.RoomMembers[roomID], connectionID)

	req.Len(registry.GetSinksForRoom(roomID), 1)
	req.Contains(registry.GetSinksForRoom(roomID), sink)
}

func TestRegistry_Subscribe_One_Room_Multiple_Participants(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID1 := uuid.NewString()
	connectionID2 := uuid.NewString()
	roomID := domain.RoomID("lobby")
	sink1 := Sink{}
	sink2 := Sink{}

	// When connections join a room
	registry.Subscribe(connectionID1, roomID, sink1)
	registry.Subscribe(connectionID2, roomID, sink2)

	// Then
	req.Len(registry.Sessions, 2)
	req.Len(registry.RoomMembers[roomID], 2)

	req.Len(registry.GetSinksForRoom(roomID), 2)
	req.Contains(registry.GetSinksForRoom(roomID), sink1)
}

func TestRegistry_Subscribe_Twice_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	roomID := domain.RoomID("lobby")
	sink := Sink{}

	// When a connection joins the same room twice
	registry.Subscribe(connectionID, roomID, sink)
	registry.Subscribe(connectionID, roomID, sink)

	// Then it is registered once
	req.Len(registry.Sessions, 1)
	req.Len(registry.RoomMembers[roomID], 1)
	req.Len(registry.GetSinksForRoom(roomID), 1)
}

func TestRegistry_UnSubscribe_One_Room_One_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID := uuid.NewString()
	roomID := domain.RoomID("lobby")
	sink := Sink{}

	// Given a connection joined a room
	registry.Subscribe(connectionID, roomID, sink)

	// When the connection leaves the room
	registry.Unsubscribe(connectionID, roomID)

	// Then no connection left
	// And the room doesn't exist anymore
	req.Empty(registry.Sessions)
	req.Empty(registry.RoomMembers)

	// And no delivery target left in room
	req.Nil(registry.GetSinksForRoom(roomID))
}

func TestRegistry_UnSubscribe_One_Room_Multiple_Participant(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()
	connectionID1 := uuid.NewString()
	connectionID2 := uuid.NewString()
	roomID := domain.RoomID("lobby")
	sink1 := Sink{}
	sink2 := Sink{}

	// When connections join a room
	registry.Subscribe(connectionID1, roomID, sink1)
	registry.Subscribe(connectionID2, roomID, sink2)

	// When one connection leaves the room
	registry.Unsubscribe(connectionID1, roomID)

	// Then only one connection left
	req.Len(registry.Sessions, 1)
	req.Len(registry.RoomMembers[roomID], 1)

	req.Len(registry.GetSinksForRoom(roomID), 1)
	req.Contains(registry.GetSinksForRoom(roomID), sink2)
}

func TestRegistry_GetSinksForRoom_Unknown_Room(t *testing.T) {
	req := require.New(t)
	registry := NewRegistry()

	// When asking for a room nobody ever joined
	sinks := registry.GetSinksForRoom(domain.RoomID("ghost-town"))

	// Then there is nothing to deliver to
	req.Nil(sinks)
}
