package chat

import (
	"codecrux/domain"
)

type Command interface {
	RoomID() domain.RoomID
}

// TurnCommand carries one full chat turn request: the new user message
// plus the caller-supplied linear history.
type TurnCommand struct {
	Room     string
	SenderID string
	Content  string
	History  domain.History
}

func (c TurnCommand) RoomID() domain.RoomID {
	return domain.RoomID(c.Room)
}

// GetMessageCommand requests a page of the stored transcript of a room.
type GetMessageCommand struct {
	Room   string
	Cursor *string
}

func (c GetMessageCommand) RoomID() domain.RoomID {
	return domain.RoomID(c.Room)
}
