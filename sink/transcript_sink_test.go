package sink_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"codecrux/domain/event"
	"codecrux/mocks"
	"codecrux/repositories"
	"codecrux/sink"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTranscriptSink_Consume(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Silencing logs for clean test output
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()
	at := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	t.Run("User echo is stored and indexed", func(t *testing.T) {
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockSearch := mocks.NewMockISearchRepository(ctrl)
		s := sink.NewTranscriptSink(mockRepo, mockSearch, logger)

		var stored repositories.DiskMessage
		mockRepo.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(dm repositories.DiskMessage) error {
				stored = dm
				return nil
			}).Times(1)
		mockSearch.EXPECT().
			Index(gomock.Any()).
			DoAndReturn(func(dm repositories.DiskMessage) error {
				req.Equal(stored, dm)
				return nil
			}).Times(1)

		err := s.Consume(ctx, event.UserMessagePosted{
			Room:     "lobby",
			TurnID:   uuid.New(),
			SenderID: "conn-1",
			Content:  "how do goroutines work under the hood",
			At:       at,
		})
		req.NoError(err)

		req.Equal("lobby", stored.Room)
		req.Equal("user", stored.Role)
		req.Equal("how do goroutines work under the hood", stored.Content)
		req.Equal("en", stored.Language)
		req.Equal(at, stored.At)
		req.NotEqual(uuid.Nil, stored.ID)
	})

	t.Run("Completed turn is stored as assistant", func(t *testing.T) {
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockSearch := mocks.NewMockISearchRepository(ctrl)
		s := sink.NewTranscriptSink(mockRepo, mockSearch, logger)

		var stored repositories.DiskMessage
		mockRepo.EXPECT().
			StoreMessage(gomock.Any()).
			DoAndReturn(func(dm repositories.DiskMessage) error {
				stored = dm
				return nil
			}).Times(1)
		mockSearch.EXPECT().Index(gomock.Any()).Return(nil).Times(1)

		err := s.Consume(ctx, event.TurnCompleted{
			Room:         "lobby",
			TurnID:       uuid.New(),
			FullResponse: "They are multiplexed onto OS threads by the scheduler",
			At:           at,
		})
		req.NoError(err)

		req.Equal("assistant", stored.Role)
		req.Equal("They are multiplexed onto OS threads by the scheduler", stored.Content)
	})

	t.Run("Chunks and failures are not persisted", func(t *testing.T) {
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockSearch := mocks.NewMockISearchRepository(ctrl)
		s := sink.NewTranscriptSink(mockRepo, mockSearch, logger)

		// No repository expectations: any call would fail the test
		req.NoError(s.Consume(ctx, event.AssistantChunk{Room: "lobby", TurnID: uuid.New(), Chunk: "par"}))
		req.NoError(s.Consume(ctx, event.TurnFailed{Room: "lobby", TurnID: uuid.New(), Reason: "boom"}))
	})

	t.Run("Storage failure surfaces, indexing failure does not", func(t *testing.T) {
		mockRepo := mocks.NewMockIMessageRepository(ctrl)
		mockSearch := mocks.NewMockISearchRepository(ctrl)
		s := sink.NewTranscriptSink(mockRepo, mockSearch, logger)

		echo := event.UserMessagePosted{Room: "lobby", TurnID: uuid.New(), Content: "hello", At: at}

		// Disk write failure is the sink's failure
		mockRepo.EXPECT().StoreMessage(gomock.Any()).Return(context.DeadlineExceeded).Times(1)
		req.Error(s.Consume(ctx, echo))

		// Index failure is tolerated, the canonical copy is on disk
		mockRepo.EXPECT().StoreMessage(gomock.Any()).Return(nil).Times(1)
		mockSearch.EXPECT().Index(gomock.Any()).Return(context.DeadlineExceeded).Times(1)
		req.NoError(s.Consume(ctx, echo))
	})
}
