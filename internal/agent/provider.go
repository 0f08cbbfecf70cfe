package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/realtypilot/realtypilot/internal/config"
)

// CompletionClient is the outbound side of the chat proxy.
type CompletionClient interface {
	// Configured reports whether the provider credential is present.
	Configured() bool

	// Complete performs one synchronous chat-completion call and returns the
	// provider's raw response body so it can be relayed unchanged.
	Complete(ctx context.Context, messages []Message) ([]byte, error)
}

// UpstreamError reports a non-success response from the chat-completion
// provider, carrying the status and body for caller diagnostics.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("chat provider returned status %d", e.Status)
}

// ProviderClient calls an OpenAI-compatible chat-completions endpoint.
// One request per call: no retry, no streaming.
type ProviderClient struct {
	cfg    config.ChatConfig
	http   *http.Client
	logger *slog.Logger
}

// Ensure ProviderClient implements CompletionClient.
var _ CompletionClient = (*ProviderClient)(nil)

// NewProviderClient creates a provider client from chat configuration.
func NewProviderClient(cfg config.ChatConfig, logger *slog.Logger) *ProviderClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProviderClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Configured reports whether the provider credential is present.
func (c *ProviderClient) Configured() bool {
	return c.cfg.APIKey != ""
}

// completionPayload is the outbound chat-completions request body. Model,
// temperature, and token cap come from configuration, not the caller.
type completionPayload struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Complete posts messages to the provider and returns its raw response body.
// A timeout on the upstream call is reported as an UpstreamError with a 504
// status so callers can distinguish it from local faults.
func (c *ProviderClient) Complete(ctx context.Context, messages []Message) ([]byte, error) {
	payload, err := json.Marshal(completionPayload{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("chat provider call timed out", "elapsed", time.Since(start))
			return nil, &UpstreamError{
				Status: http.StatusGatewayTimeout,
				Body:   []byte(`{"error":{"message":"chat provider timed out"}}`),
			}
		}
		return nil, fmt.Errorf("call chat provider: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close provider response body", "error", closeErr)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read provider response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("chat provider returned non-success status",
			"status", resp.StatusCode,
			"elapsed", time.Since(start),
		)
		return nil, &UpstreamError{Status: resp.StatusCode, Body: body}
	}

	c.logger.Debug("chat completion succeeded",
		"elapsed", time.Since(start),
		"response_bytes", len(body),
	)
	return body, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
