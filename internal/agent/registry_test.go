package agent

import (
	"testing"
)

func TestFindReturnsExactRecordForEveryBuiltinSlug(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()
	for _, want := range BuiltinAgents() {
		got, ok := registry.Find(want.Slug)
		if !ok {
			t.Fatalf("Find(%q) returned not found", want.Slug)
		}
		if got.Slug != want.Slug || got.Name != want.Name || got.SystemPrompt != want.SystemPrompt {
			t.Fatalf("Find(%q) returned a different record: %+v", want.Slug, got)
		}
	}
}

func TestFindUnknownSlugReturnsNotFound(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()
	for _, slug := range []string{"", "not-a-real-agent", "Elite-Agent-Recruiter", "elite-agent-recruiter "} {
		if _, ok := registry.Find(slug); ok {
			t.Fatalf("Find(%q) unexpectedly found an agent", slug)
		}
	}
}

func TestNewRegistryRejectsDuplicateSlugs(t *testing.T) {
	t.Parallel()

	agents := []Agent{
		{Slug: "a", Name: "A", Tagline: "a", SystemPrompt: "p"},
		{Slug: "a", Name: "B", Tagline: "b", SystemPrompt: "p"},
	}
	if _, err := NewRegistry(agents); err == nil {
		t.Fatal("expected duplicate slug error")
	}
}

func TestNewRegistryRejectsEmptyFields(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		agent Agent
	}{
		{"empty slug", Agent{Name: "A", Tagline: "a", SystemPrompt: "p"}},
		{"empty name", Agent{Slug: "a", Tagline: "a", SystemPrompt: "p"}},
		{"empty prompt", Agent{Slug: "a", Name: "A", Tagline: "a"}},
	}
	for _, tc := range cases {
		if _, err := NewRegistry([]Agent{tc.agent}); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestSummariesPreserveRegistrationOrder(t *testing.T) {
	t.Parallel()

	registry := DefaultRegistry()
	summaries := registry.Summaries()
	builtins := BuiltinAgents()

	if len(summaries) != len(builtins) {
		t.Fatalf("expected %d summaries, got %d", len(builtins), len(summaries))
	}
	for i, s := range summaries {
		if s.Slug != builtins[i].Slug {
			t.Fatalf("summary %d: expected slug %q, got %q", i, builtins[i].Slug, s.Slug)
		}
		if s.Name != builtins[i].Name || s.Tagline != builtins[i].Tagline {
			t.Fatalf("summary %d: projection mismatch: %+v", i, s)
		}
	}
}
