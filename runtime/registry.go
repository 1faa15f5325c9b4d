package runtime

import (
	"sync"

	"codecrux/contract"
	"codecrux/domain"
)

type Set map[string]struct{}

// Registry is the only mutable shared state of the relay: which
// connections are currently joined to which room.
type Registry struct {
	mu          sync.RWMutex
	Sessions    map[string]contract.EventSink // connection id -> sink
	RoomMembers map[domain.RoomID]Set         // room id -> connection ids
}

func NewRegistry() *Registry {
	return &Registry{
		Sessions:    make(map[string]contract.EventSink),
		RoomMembers: make(map[domain.RoomID]Set),
	}
}

// GetSinksForRoom retrieves all active delivery targets for a room.
// The returned slice is a snapshot taken under the lock: a connection
// joining mid-broadcast will not receive that broadcast, but never a
// torn one. Returns nil for an absent or empty room.
func (r *Registry) GetSinksForRoom(roomID domain.RoomID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.RoomMembers[roomID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for connectionID := range members {
		if sink, exists := r.Sessions[connectionID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a connection's sink and assigns it to a room.
// Rooms are created lazily on first join; joining a room twice is a
// no-op.
func (r *Registry) Subscribe(connectionID string, roomID domain.RoomID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sessions[connectionID] = sink

	if _, ok := r.RoomMembers[roomID]; !ok {
		r.RoomMembers[roomID] = make(Set)
	}
	r.RoomMembers[roomID][connectionID] = struct{}{}
}

// Unsubscribe removes a connection from the registry and its room.
// An empty room entry is deleted outright: absence is the terminal
// state of a room, there is no other garbage collection.
func (r *Registry) Unsubscribe(connectionID string, roomID domain.RoomID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sessions, connectionID)

	if members, ok := r.RoomMembers[roomID]; ok {
		delete(members, connectionID)

		if len(members) == 0 {
			delete(r.RoomMembers, roomID)
		}
	}
}
