// Package httpapi exposes the HTTP surface: the streaming chat adapter,
// the developer-tool proxies and read access to stored transcripts.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"codecrux/domain/chat"
	"codecrux/repositories"
	"codecrux/services"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = validator.New()

type Server struct {
	log         *slog.Logger
	assist      *services.AssistService
	chatService services.IChatService
}

func NewServer(log *slog.Logger, assist *services.AssistService,
	chatService services.IChatService) http.Handler {
	s := &Server{log: log, assist: assist, chatService: chatService}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ai/chat", s.handleChat)
	mux.HandleFunc("POST /api/ai/chat/stream", s.handleStreamChat)
	mux.HandleFunc("POST /api/ai/review", s.handleReview)
	mux.HandleFunc("POST /api/ai/bugs", s.handleBugs)
	mux.HandleFunc("POST /api/ai/explain", s.handleExplain)
	mux.HandleFunc("POST /api/ai/tests", s.handleTests)
	mux.HandleFunc("POST /api/ai/refactor", s.handleRefactor)
	mux.HandleFunc("POST /api/ai/sql", s.handleSQL)
	mux.HandleFunc("POST /api/ai/regex", s.handleRegex)
	mux.HandleFunc("POST /api/ai/snippet", s.handleSnippet)
	mux.HandleFunc("POST /api/ai/commit", s.handleCommit)
	mux.HandleFunc("POST /api/ai/algorithm", s.handleAlgorithm)
	mux.HandleFunc("POST /api/ai/documentation", s.handleDocumentation)
	mux.HandleFunc("POST /api/ai/suggest", s.handleSuggest)
	mux.HandleFunc("POST /api/ai/api-docs", s.handleAPIDocs)
	mux.HandleFunc("POST /api/ai/architecture", s.handleArchitecture)
	mux.HandleFunc("POST /api/ai/performance", s.handlePerformance)
	mux.HandleFunc("POST /api/ai/security", s.handleSecurity)
	mux.HandleFunc("POST /api/ai/convert", s.handleConvert)
	mux.HandleFunc("POST /api/ai/techstack", s.handleTechStack)
	mux.HandleFunc("POST /api/ai/smells", s.handleSmells)
	mux.HandleFunc("GET /api/chat/messages", s.handleGetMessages)
	mux.HandleFunc("GET /api/chat/search", s.handleSearch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

type codeRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language" validate:"required"`
	Context  string `json:"context"`
	Error    string `json:"errorMessage"`
	Level    string `json:"level"`
	Frame    string `json:"framework"`
	DocStyle string `json:"docStyle"`
	Metrics  string `json:"performanceMetrics"`
}

type refactorRequest struct {
	Code     string   `json:"code" validate:"required"`
	Language string   `json:"language" validate:"required"`
	Goals    []string `json:"goals"`
}

type sqlRequest struct {
	Description string `json:"description" validate:"required"`
	Schema      string `json:"schema"`
	Dialect     string `json:"dialect"`
}

type regexRequest struct {
	Description string   `json:"description" validate:"required"`
	Examples    []string `json:"examples"`
}

type snippetRequest struct {
	Description string `json:"description" validate:"required"`
	Language    string `json:"language" validate:"required"`
	Style       string `json:"style"`
}

type commitRequest struct {
	Diff  string `json:"diff" validate:"required"`
	Style string `json:"style"`
}

type algorithmRequest struct {
	Name        string `json:"algorithmName" validate:"required"`
	Language    string `json:"language"`
	IncludeCode *bool  `json:"includeCode"`
}

type suggestRequest struct {
	PartialCode string `json:"partialCode" validate:"required"`
	Language    string `json:"language" validate:"required"`
	Context     string `json:"context"`
}

type apiDocRequest struct {
	Endpoint     string `json:"endpoint" validate:"required"`
	Method       string `json:"method" validate:"required"`
	RequestBody  string `json:"requestBody"`
	ResponseBody string `json:"responseBody"`
}

type architectureRequest struct {
	ProjectDescription string   `json:"projectDescription" validate:"required"`
	Requirements       []string `json:"requirements"`
	Constraints        []string `json:"constraints"`
}

type convertRequest struct {
	Code         string `json:"code" validate:"required"`
	FromLanguage string `json:"fromLanguage" validate:"required"`
	ToLanguage   string `json:"toLanguage" validate:"required"`
}

type techStackRequest struct {
	ProjectType  string   `json:"projectType" validate:"required"`
	Requirements []string `json:"requirements"`
	TeamSize     string   `json:"teamSize"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}
	review, err := s.assist.ReviewCode(r.Context(), req.Code, req.Language, req.Context)
	s.respondResult(w, "review", review, err)
}

func (s *Server) handleBugs(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}
	analysis, err := s.assist.DetectBugs(r.Context(), req.Code, req.Language, req.Error)
	s.respondResult(w, "analysis", analysis, err)
}

func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}
	explanation, err := s.assist.ExplainCode(r.Context(), req.Code, req.Language, req.Level)
	s.respondResult(w, "explanation", explanation, err)
}

func (s *Server) handleTests(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}
	tests, err := s.assist.GenerateTests(r.Context(), req.Code, req.Language, req.Frame)
	s.respondResult(w, "tests", tests, err)
}

func (s *Server) handleRefactor(w http.ResponseWriter, r *http.Request) {
	var req refactorRequest
	if !s.decode(w, r, &req) {
		return
	}
	refactored, err := s.assist.RefactorCode(r.Context(), req.Code, req.Language, req.Goals)
	s.respondResult(w, "refactored", refactored, err)
}

func (s *Server) handleSQL(w http.ResponseWriter, r *http.Request) {
	var req sqlRequest
	if !s.decode(w, r, &req) {
		return
	}
	query, err := s.assist.GenerateSQL(r.Context(), req.Description, req.Schema, req.Dialect)
	s.respondResult(w, "query", query, err)
}

func (s *Server) handleRegex(w http.ResponseWriter, r *http.Request) {
	var req regexRequest
	if !s.decode(w, r, &req) {
		return
	}
	pattern, err := s.assist.GenerateRegex(r.Context(), req.Description, req.Examples)
	s.respondResult(w, "regex", pattern, err)
}

func (s *Server) handleSnippet(w http.ResponseWriter, r *http.Request) {
	var req snippetRequest
	if !s.decode(w, r, &req) {
		return
	}
	snippet, err := s.assist.GenerateSnippet(r.Context(), req.Description, req.Language, req.Style)
	s.respondResult(w, "snippet", snippet, err)
}

func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if !s.decode(w, r, &req) {
		return
	}
	message, err := s.assist.GenerateCommitMessage(r.Context(), req.Diff, req.Style)
	s.respondResult(w, "commitMessage", message, err)
}

func (s *Server) handleAlgorithm(w http.ResponseWriter, r *http.Request) {
	var req algorithmRequest
	if !s.decode(w, r, &req) {
		return
	}
	includeCode := req.IncludeCode == nil || *req.IncludeCode
	explanation, err := s.assist.ExplainAlgorithm(r.Context(), req.Name, req.Language, includeCode)
	s.respondResult(w, "explanation", explanation, err)
}

func (s *Server) handleDocumentation(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}
	documentation, err := s.assist.GenerateDocumentation(r.Context(), req.Code, req.Language, req.DocStyle)
	s.respondResult(w, "documentation", documentation, err)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !s.decode(w, r, &req) {
		return
	}
	suggestion, err := s.assist.SuggestCode(r.Context(), req.PartialCode, req.Language, req.Context)
	s.respondResult(w, "suggestion", suggestion, err)
}

func (s *Server) handleAPIDocs(w http.ResponseWriter, r *http.Request) {
	var req apiDocRequest
	if !s.decode(w, r, &req) {
		return
	}
	documentation, err := s.assist.GenerateAPIDocumentation(r.Context(), req.Endpoint, req.Method, req.RequestBody, req.ResponseBody)
	s.respondResult(w, "documentation", documentation, err)
}

func (s *Server) handleArchitecture(w http.ResponseWriter, r *http.Request) {
	var req architectureRequest
	if !s.decode(w, r, &req) {
		return
	}
	architecture, err := s.assist.SuggestArchitecture(r.Context(), req.ProjectDescription, req.Requirements, req.Constraints)
	s.respondResult(w, "architecture", architecture, err)
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}
	optimization, err := s.assist.OptimizePerformance(r.Context(), req.Code, req.Language, req.Metrics)
	s.respondResult(w, "optimization", optimization, err)
}

func (s *Server) handleSecurity(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}
	report, err := s.assist.ScanSecurity(r.Context(), req.Code, req.Language, req.Frame)
	s.respondResult(w, "securityReport", report, err)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	var req convertRequest
	if !s.decode(w, r, &req) {
		return
	}
	converted, err := s.assist.ConvertCode(r.Context(), req.Code, req.FromLanguage, req.ToLanguage)
	s.respondResult(w, "converted", converted, err)
}

func (s *Server) handleTechStack(w http.ResponseWriter, r *http.Request) {
	var req techStackRequest
	if !s.decode(w, r, &req) {
		return
	}
	advice, err := s.assist.AdviseTechStack(r.Context(), req.ProjectType, req.Requirements, req.TeamSize)
	s.respondResult(w, "advice", advice, err)
}

func (s *Server) handleSmells(w http.ResponseWriter, r *http.Request) {
	var req codeRequest
	if !s.decode(w, r, &req) {
		return
	}
	smells, err := s.assist.DetectCodeSmells(r.Context(), req.Code, req.Language)
	s.respondResult(w, "smells", smells, err)
}

type messageResponse struct {
	ID       string    `json:"id"`
	Room     string    `json:"room"`
	Role     string    `json:"role"`
	Content  string    `json:"content"`
	Language string    `json:"language,omitempty"`
	At       time.Time `json:"at"`
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	room := r.URL.Query().Get("room")
	if room == "" {
		s.respondError(w, http.StatusBadRequest, "room is required")
		return
	}
	var cursor *string
	if c := r.URL.Query().Get("cursor"); c != "" {
		cursor = &c
	}

	messages, next, err := s.chatService.GetMessages(chat.GetMessageCommand{Room: room, Cursor: cursor})
	if err != nil {
		s.log.Error("Transcript read failed", "room", room, "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"messages": lo.Map(messages, func(m repositories.DiskMessage, _ int) messageResponse {
			return messageResponse{
				ID:       m.ID.String(),
				Room:     m.Room,
				Role:     m.Role,
				Content:  m.Content,
				Language: m.Language,
				At:       m.At,
			}
		}),
		"cursor": next,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	terms := r.URL.Query().Get("q")
	if terms == "" {
		s.respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	hits, err := s.chatService.Search(r.Context(), terms, r.URL.Query().Get("room"), limit)
	if err != nil {
		s.log.Error("Transcript search failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "search failed")
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"success": true,
		"results": lo.Map(hits, func(h repositories.SearchHit, _ int) messageResponse {
			return messageResponse{
				ID:      h.ID.String(),
				Room:    h.Room,
				Role:    h.Role,
				Content: h.Content,
				At:      h.At,
			}
		}),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{"status": "ok"})
}

// decode reads and validates a JSON body, answering 400 itself when the
// payload is unusable.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// respondResult wraps a generation result in the {success, <field>,
// timestamp} envelope shared by every tool endpoint.
func (s *Server) respondResult(w http.ResponseWriter, field, value string, err error) {
	if err != nil {
		s.log.Error("Generation failed", "field", field, "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respond(w, http.StatusOK, map[string]any{
		"success":   true,
		field:       value,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]any{"success": false, "message": message})
}

func (s *Server) respond(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Warn("Response write failed", "error", err)
	}
}
