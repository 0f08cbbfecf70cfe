// Package chatclient drives the chat proxy from a client-owned conversation.
// It implements the site's chat-widget contract: the client holds the full
// transcript, sends it on every turn, and turns any failure into a
// synthesized assistant message so the user can simply try again.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/realtypilot/realtypilot/internal/agent"
)

// State is the conversation's send state. There is no streaming or partial
// state; a turn is either idle or fully in flight.
type State int

const (
	// StateIdle means no call is in flight.
	StateIdle State = iota
	// StateSending means one call is in flight; further sends are rejected.
	StateSending
)

// ErrSendInFlight is returned when Send is called while a turn is in flight.
var ErrSendInFlight = errors.New("a message is already being sent")

// Conversation owns the transcript for one chat session with one agent.
// It lives only in memory for the lifetime of the client and is never
// persisted anywhere.
type Conversation struct {
	serverURL string
	slug      string
	http      *http.Client

	mu       sync.Mutex
	state    State
	messages []agent.Message
}

// New creates an empty conversation against serverURL for the given agent
// slug.
func New(serverURL, slug string) *Conversation {
	return &Conversation{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		slug:      slug,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
}

// Slug returns the agent slug this conversation is bound to.
func (c *Conversation) Slug() string {
	return c.slug
}

// State returns the current send state.
func (c *Conversation) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a copy of the transcript in order.
func (c *Conversation) Messages() []agent.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]agent.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Send appends text as a user message, posts the full transcript to the
// proxy, and appends the assistant reply. On any failure it appends a
// synthesized assistant-role message describing the error instead; the user
// retries by sending another message. Send errors only when a turn is
// already in flight.
func (c *Conversation) Send(ctx context.Context, text string) (agent.Message, error) {
	c.mu.Lock()
	if c.state == StateSending {
		c.mu.Unlock()
		return agent.Message{}, ErrSendInFlight
	}
	c.state = StateSending
	c.messages = append(c.messages, agent.Message{Role: agent.RoleUser, Content: text})
	transcript := make([]agent.Message, len(c.messages))
	copy(transcript, c.messages)
	c.mu.Unlock()

	reply := c.post(ctx, transcript)

	c.mu.Lock()
	c.messages = append(c.messages, reply)
	c.state = StateIdle
	c.mu.Unlock()

	return reply, nil
}

// post performs one proxy call and always returns an assistant message,
// synthesizing one from the failure when the call does not produce a reply.
func (c *Conversation) post(ctx context.Context, transcript []agent.Message) agent.Message {
	payload, err := json.Marshal(agent.ChatRequest{Slug: c.slug, Messages: transcript})
	if err != nil {
		return errorMessage(fmt.Sprintf("could not encode the request (%v)", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return errorMessage(fmt.Sprintf("could not build the request (%v)", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errorMessage("could not reach the chat service. Check your connection and try again.")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorMessage("the chat service reply could not be read. Please try again.")
	}

	if resp.StatusCode != http.StatusOK {
		var errResp agent.ErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error != "" {
			return errorMessage(errResp.Error + ". Please try again.")
		}
		return errorMessage(fmt.Sprintf("the chat service returned status %d. Please try again.", resp.StatusCode))
	}

	var completion struct {
		Choices []struct {
			Message agent.Message `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &completion); err != nil || len(completion.Choices) == 0 {
		return errorMessage("the chat service returned an unexpected reply. Please try again.")
	}

	reply := completion.Choices[0].Message
	if reply.Role == "" {
		reply.Role = agent.RoleAssistant
	}
	return reply
}

func errorMessage(detail string) agent.Message {
	return agent.Message{
		Role:    agent.RoleAssistant,
		Content: "Sorry, something went wrong: " + detail,
	}
}

// ListAgents fetches the discovery listing from the proxy.
func ListAgents(ctx context.Context, serverURL string) ([]agent.Summary, error) {
	url := strings.TrimSuffix(serverURL, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build agent listing request: %w", err)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch agent listing: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("agent listing returned status %d", resp.StatusCode)
	}

	var listing agent.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("decode agent listing: %w", err)
	}
	return listing.AvailableAgents, nil
}
