package sink

import (
	"context"
	"fmt"
	"log/slog"

	"codecrux/domain"
	"codecrux/domain/event"
	"codecrux/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

// TranscriptSink is the persistence collaborator of the relay: it
// appends finalized turn payloads to the stored conversation and keeps
// the search index in step. Deliveries are fire-and-forget from the
// orchestrator's point of view.
type TranscriptSink struct {
	repository repositories.IMessageRepository
	search     repositories.ISearchRepository
	log        *slog.Logger
}

func NewTranscriptSink(repository repositories.IMessageRepository,
	search repositories.ISearchRepository, log *slog.Logger) TranscriptSink {
	return TranscriptSink{repository: repository, search: search, log: log}
}

func (t TranscriptSink) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.UserMessagePosted:
		return t.store(repositories.DiskMessage{
			ID:       uuid.New(),
			Room:     evt.Room,
			Role:     string(domain.RoleUser),
			Content:  evt.Content,
			Language: detectLanguage(evt.Content),
			At:       evt.At,
		})
	case event.TurnCompleted:
		return t.store(repositories.DiskMessage{
			ID:       uuid.New(),
			Room:     evt.Room,
			Role:     string(domain.RoleAssistant),
			Content:  evt.FullResponse,
			Language: detectLanguage(evt.FullResponse),
			At:       evt.At,
		})
	default:
		t.log.Debug(fmt.Sprintf("Not persisted event : %T", evt))
		return nil
	}
}

func (t TranscriptSink) store(dm repositories.DiskMessage) error {
	if err := t.repository.StoreMessage(dm); err != nil {
		return err
	}
	if t.search == nil {
		return nil
	}
	if err := t.search.Index(dm); err != nil {
		// The canonical copy is already on disk, a stale index is acceptable.
		t.log.Warn("Search indexing failed", "room", dm.Room, "error", err)
	}
	return nil
}

func detectLanguage(content string) string {
	info := whatlanggo.Detect(content)
	return info.Lang.Iso6391()
}
