//go:generate go run go.uber.org/mock/mockgen -source=search.go -destination=../mocks/mock_search_repository.go -package=mocks
package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/google/uuid"
)

type ISearchRepository interface {
	Index(message DiskMessage) error
	Search(ctx context.Context, terms, room string, limit int) ([]SearchHit, error)
}

// SearchHit is one full-text match over the stored transcripts.
type SearchHit struct {
	ID      uuid.UUID
	Room    string
	Role    string
	Content string
	At      time.Time
}

// SearchRepository maintains a Bluge index next to the Badger store so
// transcripts stay searchable without scanning every key.
type SearchRepository struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchRepository(writer *bluge.Writer, log *slog.Logger) *SearchRepository {
	return &SearchRepository{writer: writer, log: log}
}

func (s *SearchRepository) Index(message DiskMessage) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField("content", message.Content).StoreValue()).
		AddField(bluge.NewKeywordField("room", message.Room).StoreValue()).
		AddField(bluge.NewKeywordField("role", message.Role).StoreValue()).
		AddField(bluge.NewKeywordField("at", message.At.Format(time.RFC3339Nano)).StoreValue())
	return s.writer.Update(doc.ID(), doc)
}

// Search runs a match query over message contents, optionally filtered
// to one room.
func (s *SearchRepository) Search(ctx context.Context, terms, room string, limit int) ([]SearchHit, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewMatchQuery(terms).SetField("content"))
	if room != "" {
		query.AddMust(bluge.NewTermQuery(room).SetField("room"))
	}

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []SearchHit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var hit SearchHit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				if id, parseErr := uuid.Parse(string(value)); parseErr == nil {
					hit.ID = id
				}
			case "room":
				hit.Room = string(value)
			case "role":
				hit.Role = string(value)
			case "content":
				hit.Content = string(value)
			case "at":
				if at, parseErr := time.Parse(time.RFC3339Nano, string(value)); parseErr == nil {
					hit.At = at
				}
			}
			return true
		})
		if err != nil {
			s.log.Warn("Could not read stored fields for match", "error", err)
			continue
		}
		hits = append(hits, hit)
	}
	return hits, nil
}
