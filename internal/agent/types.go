// Package agent implements the chat-agent proxy: a fixed registry of
// marketing personas and an HTTP bridge that scopes client conversations
// to an external chat-completion provider.
package agent

// Message roles accepted by the chat proxy.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation. The full ordered history is owned
// by the client and resent on every call; the server keeps no state.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the POST /api/chat request body.
type ChatRequest struct {
	Slug     string    `json:"slug"`
	Messages []Message `json:"messages"`
}

// Summary is the discovery projection of an Agent.
type Summary struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
}

// ListResponse is the GET /api/chat response body.
type ListResponse struct {
	Message         string    `json:"message"`
	AvailableAgents []Summary `json:"availableAgents"`
}

// ErrorResponse is the JSON body returned for any chat proxy failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
