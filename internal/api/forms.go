package api

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/realtypilot/realtypilot/internal/domain"
	"github.com/realtypilot/realtypilot/internal/store"
)

// maxFormBodySize caps form request bodies (64KB).
const maxFormBodySize = 64 << 10

// FormsHandler serves the contact, newsletter, and webhook endpoints.
type FormsHandler struct {
	repo        store.Repository
	rateLimiter *RateLimiter
}

// NewFormsHandler creates the form endpoints handler. The rate limiter
// applies to newsletter signups only, keyed by source IP.
func NewFormsHandler(repo store.Repository, rateLimiter *RateLimiter) *FormsHandler {
	return &FormsHandler{repo: repo, rateLimiter: rateLimiter}
}

// RegisterRoutes registers the form endpoints.
func (h *FormsHandler) RegisterRoutes(r chi.Router) {
	r.Post("/api/contact", h.HandleContact)
	r.Post("/api/newsletter", h.HandleNewsletter)
	r.Post("/api/webhooks/ghl", h.HandleGHLWebhook)
}

// ContactRequest is the POST /api/contact body.
type ContactRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Brokerage string `json:"brokerage,omitempty"`
	Message   string `json:"message"`
}

// HandleContact validates and persists a contact form submission.
func (h *FormsHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodySize)

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" {
		Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validEmail(req.Email) {
		Error(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if req.Message == "" {
		Error(w, http.StatusBadRequest, "message is required")
		return
	}

	sub := &domain.ContactSubmission{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     strings.TrimSpace(req.Phone),
		Brokerage: strings.TrimSpace(req.Brokerage),
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.repo.SaveContact(r.Context(), sub); err != nil {
		slog.Error("Failed to save contact submission", "error", err)
		Error(w, http.StatusInternalServerError, "failed to save submission")
		return
	}

	slog.Info("Contact submission received", "id", sub.ID, "brokerage", sub.Brokerage != "")
	JSON(w, http.StatusCreated, map[string]string{"id": sub.ID, "status": "received"})
}

// NewsletterRequest is the POST /api/newsletter body.
type NewsletterRequest struct {
	Email string `json:"email"`
}

// HandleNewsletter validates, rate-limits by source IP, and persists a
// newsletter signup. Re-subscribing an existing email succeeds quietly.
func (h *FormsHandler) HandleNewsletter(w http.ResponseWriter, r *http.Request) {
	ip := clientIP(r)
	if !h.rateLimiter.Allow(ip) {
		Error(w, http.StatusTooManyRequests, "too many signup attempts, try again later")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodySize)

	var req NewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		Error(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	signup := &domain.NewsletterSignup{
		ID:        uuid.NewString(),
		Email:     email,
		SourceIP:  ip,
		CreatedAt: time.Now().UTC(),
	}

	created, err := h.repo.SaveNewsletterSignup(r.Context(), signup)
	if err != nil {
		slog.Error("Failed to save newsletter signup", "error", err)
		Error(w, http.StatusInternalServerError, "failed to save signup")
		return
	}

	slog.Info("Newsletter signup", "created", created)
	JSON(w, http.StatusOK, map[string]any{"status": "subscribed", "created": created})
}

// HandleGHLWebhook acknowledges inbound GoHighLevel webhook events. The
// payload is logged for diagnostics and otherwise ignored.
func (h *FormsHandler) HandleGHLWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBodySize)

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	eventType, _ := payload["type"].(string)
	slog.Info("GHL webhook received", "type", eventType, "fields", len(payload))
	JSON(w, http.StatusOK, map[string]bool{"received": true})
}

// validEmail is a light sanity check, not RFC validation: one @, non-empty
// local part, and a dotted domain.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domainPart := email[at+1:]
	if len(domainPart) < 3 || !strings.Contains(domainPart, ".") {
		return false
	}
	return !strings.ContainsAny(email, " \t\n")
}

// clientIP returns the request's source IP. chi's RealIP middleware has
// already folded X-Forwarded-For into RemoteAddr when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
