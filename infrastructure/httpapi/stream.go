package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"codecrux/domain"

	"github.com/samber/lo"
)

type streamChatRequest struct {
	Message string         `json:"message" validate:"required"`
	History []historyEntry `json:"history"`
}

type historyEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type streamRecord struct {
	Chunk        string `json:"chunk"`
	Done         bool   `json:"done"`
	FullResponse string `json:"fullResponse,omitempty"`
	Error        string `json:"error,omitempty"`
}

type chatRequest struct {
	Message      string         `json:"message" validate:"required"`
	History      []historyEntry `json:"history"`
	SystemPrompt string         `json:"systemPrompt"`
}

// handleChat is the blocking variant: one request, one full response.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	response, err := s.assist.Chat(r.Context(), req.Message, toHistory(req.History), req.SystemPrompt)
	s.respondResult(w, "response", response, err)
}

// handleStreamChat is the single-client equivalent of the room relay:
// the same turn, written as Server-Sent-Events records to exactly one
// caller. The stream always terminates with either a done record or an
// error record, and the connection closes on both paths.
func (s *Server) handleStreamChat(w http.ResponseWriter, r *http.Request) {
	var req streamChatRequest
	if !s.decode(w, r, &req) {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	full, err := s.assist.StreamChat(r.Context(), req.Message, toHistory(req.History), func(chunk string) {
		s.writeRecord(w, flusher, streamRecord{Chunk: chunk, Done: false})
	})
	if err != nil {
		s.log.Warn("Stream chat failed", "error", err)
		s.writeRecord(w, flusher, streamRecord{Error: err.Error(), Done: true})
		return
	}

	s.writeRecord(w, flusher, streamRecord{Chunk: "", Done: true, FullResponse: full})
}

func (s *Server) writeRecord(w http.ResponseWriter, flusher http.Flusher, record streamRecord) {
	data, err := json.Marshal(record)
	if err != nil {
		s.log.Warn("Stream record marshal failed", "error", err)
		return
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		s.log.Warn("Stream write failed", "error", err)
		return
	}
	flusher.Flush()
}

func toHistory(entries []historyEntry) domain.History {
	return lo.Map(entries, func(item historyEntry, _ int) domain.Message {
		return domain.Message{
			Role:    domain.Role(item.Role),
			Content: item.Content,
		}
	})
}
