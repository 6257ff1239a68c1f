// Package mail hands composed lead emails to a delivery provider.
//
// Every provider implements Transport so the relay can be built and tested
// against any of them, including the logging transport used in development.
package mail

import (
	"context"
	"errors"
	"strings"
)

// ErrInvalidConfig is returned by constructors when required settings are missing.
var ErrInvalidConfig = errors.New("mail: invalid transport configuration")

// ErrInvalidMessage is returned when a message lacks a sender, recipient or body.
var ErrInvalidMessage = errors.New("mail: invalid message")

// Transport sends one message and reports what the provider acknowledged.
type Transport interface {
	Send(ctx context.Context, msg Message) (Receipt, error)
}

// Message is a single HTML email.
type Message struct {
	From     string
	FromName string
	To       string
	Subject  string
	HTML     string
	Text     string // optional plain-text alternative
	Tag      string // provider tag / category, optional
}

// Validate checks the fields every provider needs.
func (m Message) Validate() error {
	var missing []string
	if strings.TrimSpace(m.From) == "" {
		missing = append(missing, "from")
	}
	if strings.TrimSpace(m.To) == "" {
		missing = append(missing, "to")
	}
	if strings.TrimSpace(m.Subject) == "" {
		missing = append(missing, "subject")
	}
	if m.HTML == "" && m.Text == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return errors.Join(ErrInvalidMessage, errors.New("missing "+strings.Join(missing, ", ")))
	}
	return nil
}

// Receipt is the provider's acknowledgement of an accepted message.
type Receipt struct {
	Provider  string `json:"provider"`
	MessageID string `json:"message_id,omitempty"`
	Response  string `json:"response,omitempty"`
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, msg Message) (Receipt, error)

// Send calls f.
func (f TransportFunc) Send(ctx context.Context, msg Message) (Receipt, error) {
	return f(ctx, msg)
}
