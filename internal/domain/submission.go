// Package domain contains core domain types for the RealtyPilot backend.
package domain

import (
	"time"
)

// ContactSubmission represents one submitted contact form.
type ContactSubmission struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Brokerage string    `json:"brokerage,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewsletterSignup represents one newsletter subscription.
// Email is unique; re-submitting the same address is not an error.
type NewsletterSignup struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	SourceIP  string    `json:"source_ip,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
