// Package queue defines the auth audit events exchanged over RabbitMQ and
// the consumer that writes them to the audit log.
package queue

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthEventsQueue is the durable queue auth events are routed to.
const AuthEventsQueue = "auth.events"

// Event types.
const (
	EventOTPRequested      = "otp.requested"
	EventUserAuthenticated = "user.authenticated"
)

// AuthEvent records one successful step of the login flow.  It never
// carries the OTP or the token; the contact number is masked.
type AuthEvent struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	UserID        uint64 `json:"user_id"`
	ContactNumber string `json:"contact_number"`
	OccurredAt    string `json:"occurred_at"`
}

// NewAuthEvent builds an event with a fresh id.
func NewAuthEvent(typ string, userID uint64, contactNumber string, at time.Time) AuthEvent {
	return AuthEvent{
		ID:            uuid.NewString(),
		Type:          typ,
		UserID:        userID,
		ContactNumber: MaskContact(contactNumber),
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}

// MaskContact keeps the last four characters of a phone number.
func MaskContact(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
