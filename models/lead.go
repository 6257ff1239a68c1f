package models

import "time"

// Form identifies which site form produced a lead
type Form string

const (
	FormCallRequest       Form = "call-request"
	FormCalculatorRequest Form = "calculator-request"
)

// CallRequest is the "request a call" lead
type CallRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Phone         string `json:"phone" validate:"required,ru_phone"`
	PreferredTime string `json:"preferredTime,omitempty" validate:"max=100"`
	Question      string `json:"question,omitempty" validate:"max=2000"`
}

// CalculationRequest is the "request a price calculation" lead.
// Material carries the catalog label and Volume the formatted volume ("2 м³").
type CalculationRequest struct {
	Name      string `json:"name,omitempty" validate:"max=100"`
	Phone     string `json:"phone" validate:"required,ru_phone"`
	Material  string `json:"material" validate:"required,material"`
	Volume    string `json:"volume" validate:"required,volume"`
	Address   string `json:"address" validate:"required,max=500"`
	TotalCost string `json:"totalCost,omitempty" validate:"max=200"`
}

// EventLeadSubmitted is the event type of LeadSubmittedEvent
const EventLeadSubmitted = "lead.submitted"

// LeadSubmittedEvent is published after a lead email has been handed to the mail transport
type LeadSubmittedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Form      Form      `json:"form"`
	Phone     string    `json:"phone"`
	Material  string    `json:"material,omitempty"`
	Volume    string    `json:"volume,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MessageResponse is the relay's reply body
type MessageResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
