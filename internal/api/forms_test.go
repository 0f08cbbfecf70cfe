package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/realtypilot/realtypilot/internal/domain"
)

type fakeRepo struct {
	mu       sync.Mutex
	contacts []*domain.ContactSubmission
	signups  map[string]*domain.NewsletterSignup
	saveErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{signups: make(map[string]*domain.NewsletterSignup)}
}

func (f *fakeRepo) SaveContact(_ context.Context, sub *domain.ContactSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	cp := *sub
	f.contacts = append(f.contacts, &cp)
	return nil
}

func (f *fakeRepo) SaveNewsletterSignup(_ context.Context, signup *domain.NewsletterSignup) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return false, f.saveErr
	}
	if _, exists := f.signups[signup.Email]; exists {
		return false, nil
	}
	cp := *signup
	f.signups[signup.Email] = &cp
	return true, nil
}

func (f *fakeRepo) CountNewsletterSignups(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.signups)), nil
}

func (f *fakeRepo) Ping(_ context.Context) error { return nil }
func (f *fakeRepo) Close() error                 { return nil }

func (f *fakeRepo) contactCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.contacts)
}

func newTestForms(t *testing.T, repo *fakeRepo, limit int) *FormsHandler {
	t.Helper()
	rl := NewRateLimiter(limit, time.Minute)
	t.Cleanup(rl.Stop)
	return NewFormsHandler(repo, rl)
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.1:5555"
	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

func TestContactValidSubmissionPersists(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	h := newTestForms(t, repo, 10)

	rr := postJSON(h.HandleContact, "/api/contact",
		`{"name":"Dana Reyes","email":"dana@example.com","brokerage":"Reyes Realty","message":"Tell me about pricing"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp["id"] == "" || resp["status"] != "received" {
		t.Fatalf("unexpected response: %v", resp)
	}
	if repo.contactCount() != 1 {
		t.Fatalf("expected 1 stored contact, got %d", repo.contactCount())
	}
}

func TestContactRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	h := newTestForms(t, repo, 10)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name"`},
		{"missing name", `{"email":"a@b.co","message":"hi"}`},
		{"bad email", `{"name":"Dana","email":"not-an-email","message":"hi"}`},
		{"missing message", `{"name":"Dana","email":"a@b.co"}`},
	}
	for _, tc := range cases {
		rr := postJSON(h.HandleContact, "/api/contact", tc.body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", tc.name, rr.Code)
		}
	}
	if repo.contactCount() != 0 {
		t.Fatalf("invalid submissions were stored: %d", repo.contactCount())
	}
}

func TestContactStoreFailureReturns500(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.saveErr = errors.New("disk full")
	h := newTestForms(t, repo, 10)

	rr := postJSON(h.HandleContact, "/api/contact",
		`{"name":"Dana","email":"dana@example.com","message":"hi"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
}

func TestNewsletterSignupAndDuplicate(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	h := newTestForms(t, repo, 10)

	rr := postJSON(h.HandleNewsletter, "/api/newsletter", `{"email":"Agent@Example.com"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var first map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&first); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if first["created"] != true {
		t.Fatalf("expected created=true on first signup: %v", first)
	}

	// Same email, different casing: still success, not created again.
	rr = postJSON(h.HandleNewsletter, "/api/newsletter", `{"email":"agent@example.com"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for duplicate, got %d", rr.Code)
	}
	var second map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&second); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if second["created"] != false {
		t.Fatalf("expected created=false on duplicate: %v", second)
	}
}

func TestNewsletterRateLimitedPerIP(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	h := newTestForms(t, repo, 2)

	for i := 0; i < 2; i++ {
		rr := postJSON(h.HandleNewsletter, "/api/newsletter", `{"email":"a@example.com"}`)
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d: expected status 200, got %d", i+1, rr.Code)
		}
	}
	rr := postJSON(h.HandleNewsletter, "/api/newsletter", `{"email":"a@example.com"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 over the limit, got %d", rr.Code)
	}
}

func TestGHLWebhookAcknowledges(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	h := newTestForms(t, repo, 10)

	rr := postJSON(h.HandleGHLWebhook, "/api/webhooks/ghl",
		`{"type":"ContactCreate","contact_id":"abc123"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp map[string]bool
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp["received"] {
		t.Fatalf("expected received=true, got %v", resp)
	}
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	valid := []string{"a@b.co", "first.last@example.com", "x+tag@sub.domain.io"}
	invalid := []string{"", "plain", "@no-local.com", "two@@ats.com", "spaces in@mail.com", "a@b"}

	for _, e := range valid {
		if !validEmail(e) {
			t.Errorf("expected %q to be valid", e)
		}
	}
	for _, e := range invalid {
		if validEmail(e) {
			t.Errorf("expected %q to be invalid", e)
		}
	}
}
