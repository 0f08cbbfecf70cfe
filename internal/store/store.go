// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/realtypilot/realtypilot/internal/domain"
)

// Repository persists form submissions. Chat conversations are deliberately
// absent: the chat proxy is stateless and never stores transcripts here.
type Repository interface {
	// SaveContact persists one contact form submission.
	SaveContact(ctx context.Context, sub *domain.ContactSubmission) error

	// SaveNewsletterSignup persists a newsletter subscription. Duplicate
	// emails are not an error; created reports whether a new row was added.
	SaveNewsletterSignup(ctx context.Context, signup *domain.NewsletterSignup) (created bool, err error)

	// CountNewsletterSignups returns the total number of subscribers.
	CountNewsletterSignups(ctx context.Context) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
