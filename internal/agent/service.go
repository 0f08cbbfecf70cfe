package agent

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrAgentNotFound means the requested slug has no registry entry.
	ErrAgentNotFound = errors.New("agent not found")
	// ErrNotConfigured means the upstream provider credential is missing.
	// This is a deployment problem, distinct from a transient provider failure.
	ErrNotConfigured = errors.New("chat service not configured")
)

// Service bridges a client conversation to the chat-completion provider under
// one agent's persona.
type Service struct {
	registry *Registry
	provider CompletionClient
}

// NewService creates the chat proxy service.
func NewService(registry *Registry, provider CompletionClient) *Service {
	return &Service{registry: registry, provider: provider}
}

// Registry exposes the read-only agent registry for discovery listings.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Chat resolves slug, prepends one system message built from the agent's
// prompt to the caller's messages, and relays the provider's raw response
// body. Registry and credential checks happen before any upstream call.
// Each call is stateless: the caller owns the conversation and resends its
// full history every turn.
func (s *Service) Chat(ctx context.Context, slug string, messages []Message) ([]byte, error) {
	persona, ok := s.registry.Find(slug)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrAgentNotFound, slug)
	}
	if !s.provider.Configured() {
		return nil, ErrNotConfigured
	}

	outbound := make([]Message, 0, len(messages)+1)
	outbound = append(outbound, Message{Role: RoleSystem, Content: persona.SystemPrompt})
	outbound = append(outbound, messages...)

	return s.provider.Complete(ctx, outbound)
}
