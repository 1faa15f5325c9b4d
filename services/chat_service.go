//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"

	"codecrux/contract"
	"codecrux/domain"
	"codecrux/domain/chat"
	"codecrux/repositories"
	"codecrux/runtime"
)

type IChatService interface {
	RunTurn(ctx context.Context, cmd chat.TurnCommand, initiator contract.EventSink) error
	GetMessages(cmd chat.GetMessageCommand) ([]repositories.DiskMessage, *string, error)
	Search(ctx context.Context, terms, room string, limit int) ([]repositories.SearchHit, error)
	JoinRoom(connectionID string, roomID domain.RoomID, sink contract.EventSink)
	LeaveRoom(connectionID string, roomID domain.RoomID)
}

// ChatService is the facade both transports (websocket relay and HTTP
// streaming adapter) talk to.
type ChatService struct {
	orchestrator *runtime.Orchestrator
	registry     contract.IRegistry
	repository   repositories.IMessageRepository
	search       repositories.ISearchRepository
}

func NewChatService(orchestrator *runtime.Orchestrator, registry contract.IRegistry,
	repository repositories.IMessageRepository, search repositories.ISearchRepository) *ChatService {
	return &ChatService{
		orchestrator: orchestrator,
		registry:     registry,
		repository:   repository,
		search:       search,
	}
}

func (s *ChatService) RunTurn(ctx context.Context, cmd chat.TurnCommand, initiator contract.EventSink) error {
	return s.orchestrator.RunTurn(ctx, cmd, initiator)
}

func (s *ChatService) GetMessages(cmd chat.GetMessageCommand) ([]repositories.DiskMessage, *string, error) {
	return s.repository.GetMessages(cmd.Room, cmd.Cursor)
}

func (s *ChatService) Search(ctx context.Context, terms, room string, limit int) ([]repositories.SearchHit, error) {
	return s.search.Search(ctx, terms, room, limit)
}

func (s *ChatService) JoinRoom(connectionID string, roomID domain.RoomID, sink contract.EventSink) {
	s.registry.Subscribe(connectionID, roomID, sink)
}

func (s *ChatService) LeaveRoom(connectionID string, roomID domain.RoomID) {
	s.registry.Unsubscribe(connectionID, roomID)
}
