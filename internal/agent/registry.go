package agent

import (
	"fmt"
)

// Agent is a named persona with a fixed system prompt, used to scope an LLM
// conversation. Records are immutable for the process lifetime.
type Agent struct {
	Slug           string
	Name           string
	Tagline        string
	SystemPrompt   string
	StarterPrompts []string
}

// Registry provides read-only lookup by slug over a fixed agent list.
// It is built once at startup and needs no locking afterwards.
type Registry struct {
	agents []Agent
	bySlug map[string]int
}

// NewRegistry validates the agent list and builds the slug index. It fails
// fast on empty fields or duplicate slugs so a bad compiled-in list never
// reaches serving traffic.
func NewRegistry(agents []Agent) (*Registry, error) {
	bySlug := make(map[string]int, len(agents))
	for i, a := range agents {
		if a.Slug == "" {
			return nil, fmt.Errorf("agent %d (%q): slug cannot be empty", i, a.Name)
		}
		if a.Name == "" || a.Tagline == "" {
			return nil, fmt.Errorf("agent %q: name and tagline are required", a.Slug)
		}
		if a.SystemPrompt == "" {
			return nil, fmt.Errorf("agent %q: system prompt cannot be empty", a.Slug)
		}
		if _, dup := bySlug[a.Slug]; dup {
			return nil, fmt.Errorf("duplicate agent slug %q", a.Slug)
		}
		bySlug[a.Slug] = i
	}
	return &Registry{agents: agents, bySlug: bySlug}, nil
}

// Find returns the agent registered under slug. Lookups are exact-match and
// case-sensitive; the second return value reports whether the slug exists.
func (r *Registry) Find(slug string) (Agent, bool) {
	i, ok := r.bySlug[slug]
	if !ok {
		return Agent{}, false
	}
	return r.agents[i], true
}

// All returns the agents in registration order.
func (r *Registry) All() []Agent {
	out := make([]Agent, len(r.agents))
	copy(out, r.agents)
	return out
}

// Summaries returns the discovery projection in registration order.
func (r *Registry) Summaries() []Summary {
	out := make([]Summary, len(r.agents))
	for i, a := range r.agents {
		out[i] = Summary{Slug: a.Slug, Name: a.Name, Tagline: a.Tagline}
	}
	return out
}

// Len returns the number of registered agents.
func (r *Registry) Len() int {
	return len(r.agents)
}
