package domain

// RoomID identifies a broadcast group of connections sharing one
// conversation's live updates. IDs are opaque, chosen by clients.
type RoomID string
