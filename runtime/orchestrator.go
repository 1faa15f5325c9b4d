// Package runtime drives chat turns: it validates the incoming message,
// echoes it to the room, streams the generated reply chunk by chunk and
// finalizes the turn. It contains no transport or persistence logic.
package runtime

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"codecrux/contract"
	"codecrux/domain/chat"
	"codecrux/domain/event"
	"codecrux/errors"
	"codecrux/genai"
	"codecrux/moderation"
	"codecrux/prompts"

	"github.com/google/uuid"
)

// Orchestrator holds no state between turns: history is caller-supplied
// on every call and every transition is observable only through sink
// deliveries. Turns in different rooms run fully independently;
// overlapping turns in the same room are not serialized, only per-turn
// chunk order is guaranteed.
type Orchestrator struct {
	log         *slog.Logger
	registry    contract.IRegistry
	generator   contract.TextGenerator
	moderator   *moderation.Moderator
	transcripts contract.EventSink
	opts        genai.Options
}

func NewOrchestrator(log *slog.Logger, registry contract.IRegistry,
	generator contract.TextGenerator, opts genai.Options) *Orchestrator {
	return &Orchestrator{
		log:       log,
		registry:  registry,
		generator: generator,
		opts:      opts,
	}
}

// WithModerator censors the user-message echo before broadcast.
func (o *Orchestrator) WithModerator(m *moderation.Moderator) *Orchestrator {
	o.moderator = m
	return o
}

// WithTranscripts registers the persistence collaborator. Deliveries to
// it are fire-and-forget: a storage failure is logged, never surfaced
// to the room.
func (o *Orchestrator) WithTranscripts(sink contract.EventSink) *Orchestrator {
	o.transcripts = sink
	return o
}

// RunTurn executes one chat turn against the room in cmd. The initiator
// sink is the only recipient of failure events; members of the room see
// chunk and completion events exclusively. RunTurn blocks until the
// turn completed or failed.
func (o *Orchestrator) RunTurn(ctx context.Context, cmd chat.TurnCommand, initiator contract.EventSink) error {
	turnID := uuid.New()

	content := strings.TrimSpace(cmd.Content)
	if content == "" {
		o.failInitiator(ctx, initiator, event.TurnFailed{
			Room:   cmd.Room,
			TurnID: turnID,
			Reason: errors.ErrEmptyMessage.Error(),
		})
		return errors.ErrEmptyMessage
	}

	history, err := cmd.History.Normalize()
	if err != nil {
		o.failInitiator(ctx, initiator, event.TurnFailed{
			Room:   cmd.Room,
			TurnID: turnID,
			Reason: err.Error(),
		})
		return err
	}

	censoredWords := 0
	if o.moderator != nil {
		var found []string
		content, found = o.moderator.Censor(content)
		censoredWords = len(found)
	}

	userEcho := event.UserMessagePosted{
		Room:     cmd.Room,
		TurnID:   turnID,
		SenderID: cmd.SenderID,
		Content:  content,
		At:       time.Now().UTC(),
	}
	o.broadcast(ctx, userEcho)
	o.record(ctx, userEcho)

	prompt := prompts.BuildChatPrompt(history, content, "")
	full, err := o.generator.GenerateStream(ctx, prompt, o.opts, func(chunk string) {
		o.broadcast(ctx, event.AssistantChunk{Room: cmd.Room, TurnID: turnID, Chunk: chunk})
	})
	if err != nil {
		o.log.Warn("Turn failed mid-stream",
			"room", cmd.Room,
			"turn_id", turnID,
			"censored_words", censoredWords,
			"error", err)
		o.failInitiator(ctx, initiator, event.TurnFailed{
			Room:   cmd.Room,
			TurnID: turnID,
			Reason: err.Error(),
		})
		return err
	}

	completed := event.TurnCompleted{
		Room:         cmd.Room,
		TurnID:       turnID,
		FullResponse: full,
		At:           time.Now().UTC(),
	}
	o.broadcast(ctx, completed)
	o.record(ctx, completed)
	return nil
}

// broadcast delivers an event to every current member of its room.
// A failing sink is skipped: one dead connection must not starve the
// others. An empty room is a silent no-op.
func (o *Orchestrator) broadcast(ctx context.Context, e event.DomainEvent) {
	for _, sink := range o.registry.GetSinksForRoom(e.RoomID()) {
		if err := sink.Consume(ctx, e); err != nil {
			o.log.Warn("Dropping event for unreachable sink",
				"room", e.RoomID(), "error", err)
		}
	}
}

func (o *Orchestrator) failInitiator(ctx context.Context, initiator contract.EventSink, e event.TurnFailed) {
	if initiator == nil {
		return
	}
	if err := initiator.Consume(ctx, e); err != nil {
		o.log.Warn("Could not deliver turn failure to initiator",
			"room", e.Room, "error", err)
	}
}

func (o *Orchestrator) record(ctx context.Context, e event.DomainEvent) {
	if o.transcripts == nil {
		return
	}
	if err := o.transcripts.Consume(ctx, e); err != nil {
		o.log.Error("Transcript sink rejected event", "room", e.RoomID(), "error", err)
	}
}
