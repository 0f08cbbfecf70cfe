package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/realtypilot/realtypilot/internal/config"
)

func testChatConfig(baseURL string) config.ChatConfig {
	return config.ChatConfig{
		APIKey:      "test-key",
		BaseURL:     baseURL,
		Model:       "openai/gpt-4o-mini",
		Temperature: 0.7,
		MaxTokens:   256,
		Timeout:     5 * time.Second,
	}
}

func TestCompleteSendsModelAndAuthHeader(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath string
	var gotPayload completionPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotPayload)
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	client := NewProviderClient(testChatConfig(srv.URL), nil)
	msgs := []Message{{Role: RoleSystem, Content: "prompt"}, {Role: RoleUser, Content: "hi"}}
	if _, err := client.Complete(context.Background(), msgs); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("expected /chat/completions path, got %q", gotPath)
	}
	if gotPayload.Model != "openai/gpt-4o-mini" {
		t.Fatalf("expected configured model, got %q", gotPayload.Model)
	}
	if gotPayload.MaxTokens != 256 {
		t.Fatalf("expected configured max_tokens, got %d", gotPayload.MaxTokens)
	}
	if len(gotPayload.Messages) != 2 || gotPayload.Messages[0].Role != RoleSystem {
		t.Fatalf("unexpected outbound messages: %+v", gotPayload.Messages)
	}
}

func TestCompleteNonSuccessReturnsUpstreamError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded"}}`))
	}))
	defer srv.Close()

	client := NewProviderClient(testChatConfig(srv.URL), nil)
	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", upstream.Status)
	}
	if string(upstream.Body) != `{"error":{"message":"upstream exploded"}}` {
		t.Fatalf("expected provider body to be preserved, got %s", upstream.Body)
	}
}

func TestCompleteTimeoutMapsToUpstreamError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cfg := testChatConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewProviderClient(cfg, nil)

	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError for timeout, got %v", err)
	}
	if upstream.Status != http.StatusGatewayTimeout {
		t.Fatalf("expected status 504, got %d", upstream.Status)
	}
}

func TestConfiguredReflectsCredential(t *testing.T) {
	t.Parallel()

	cfg := testChatConfig("http://example.invalid")
	if !NewProviderClient(cfg, nil).Configured() {
		t.Fatal("expected client with key to be configured")
	}
	cfg.APIKey = ""
	if NewProviderClient(cfg, nil).Configured() {
		t.Fatal("expected client without key to be unconfigured")
	}
}
