package agent

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// maxRequestBodySize caps chat request bodies (1MB).
const maxRequestBodySize = 1 << 20

// Handler serves the chat proxy HTTP surface.
type Handler struct {
	service *Service
	log     ConversationLogger
}

// NewHandler creates the chat handler. A nil conversation logger disables
// transcript logging.
func NewHandler(service *Service, conversationLogger ConversationLogger) *Handler {
	if conversationLogger == nil {
		conversationLogger = noopConversationLogger{}
	}
	return &Handler{service: service, log: conversationLogger}
}

// RegisterRoutes registers the chat proxy routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/chat", func(r chi.Router) {
		r.Post("/", h.HandleChat)
		r.Get("/", h.HandleList)
	})
}

// HandleChat handles POST /api/chat: validate, resolve the agent, forward the
// conversation upstream, and relay the provider response body unchanged.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: "request body too large"})
			return
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Slug == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "slug is required"})
		return
	}
	for i, m := range req.Messages {
		if m.Role == "" || m.Content == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: fmt.Sprintf("message %d must have a role and content", i),
			})
			return
		}
	}

	reqID := chiMiddleware.GetReqID(r.Context())
	if last, ok := lastUserMessage(req.Messages); ok {
		h.log.Log(ConversationLogEvent{
			Slug:      req.Slug,
			RequestID: reqID,
			Direction: "outbound",
			EventType: "chat_user_message",
			Content:   last,
			Meta:      map[string]any{"history_length": len(req.Messages)},
		})
	}

	start := time.Now()
	body, err := h.service.Chat(r.Context(), req.Slug, req.Messages)
	if err != nil {
		h.writeChatError(w, req.Slug, reqID, err)
		return
	}

	if content, ok := completionText(body); ok {
		h.log.Log(ConversationLogEvent{
			Slug:      req.Slug,
			RequestID: reqID,
			Direction: "inbound",
			EventType: "chat_assistant_message",
			Content:   content,
		})
	}

	slog.Info("Chat completion relayed",
		"slug", req.Slug,
		"request_id", reqID,
		"history_length", len(req.Messages),
		"elapsed", time.Since(start),
	)

	// Relay the provider body byte-for-byte.
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		slog.Warn("failed to write chat response", "error", err, "request_id", reqID)
	}
}

// HandleList handles GET /api/chat: a discovery listing of registered agents
// in registry order.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ListResponse{
		Message:         "RealtyPilot chat API. POST a slug and message history to talk to an agent.",
		AvailableAgents: h.service.Registry().Summaries(),
	})
}

// writeChatError maps the proxy error taxonomy onto HTTP responses. Upstream
// failures keep the provider's status and body; everything else gets a
// generic message so internals never leak.
func (h *Handler) writeChatError(w http.ResponseWriter, slug, reqID string, err error) {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrAgentNotFound):
		slog.Info("Chat request for unknown agent", "slug", slug, "request_id", reqID)
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "agent not found"})
	case errors.Is(err, ErrNotConfigured):
		slog.Error("Chat request rejected, provider credential missing", "request_id", reqID)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "chat service not configured"})
	case errors.As(err, &upstream):
		slog.Error("Chat provider failure",
			"slug", slug,
			"request_id", reqID,
			"upstream_status", upstream.Status,
		)
		writeJSON(w, upstream.Status, ErrorResponse{
			Error:   "chat provider error",
			Details: upstreamDetails(upstream.Body),
		})
	default:
		slog.Error("Chat request failed", "slug", slug, "request_id", reqID, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// upstreamDetails preserves the provider's error body as structured JSON when
// possible, falling back to the raw text.
func upstreamDetails(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	return string(body)
}

func lastUserMessage(messages []Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content, true
		}
	}
	return "", false
}

// completionText extracts the first choice's message content from a raw
// chat-completion body, best-effort only, for transcript logging.
func completionText(body []byte) (string, bool) {
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", false
	}
	return parsed.Choices[0].Message.Content, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", "error", err)
	}
}
