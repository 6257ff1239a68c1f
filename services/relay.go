package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"lead-relay/config"
	apperrors "lead-relay/errors"
	"lead-relay/logger"
	"lead-relay/metrics"
	"lead-relay/models"
	"lead-relay/services/mail"
	"lead-relay/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

var leadTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// EventPublisher receives a lead.submitted event after each successful send.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value any) error
}

// RelayConfig fixes the envelope of every lead email.
type RelayConfig struct {
	From              string
	FromName          string
	To                string
	CallSubject       string
	CalculatorSubject string
}

// DefaultRelayConfig routes leads to the sales mailbox from the given sender.
func DefaultRelayConfig(from string) RelayConfig {
	return RelayConfig{
		From:              from,
		To:                config.LeadRecipient,
		CallSubject:       config.CallRequestSubject,
		CalculatorSubject: config.CalculatorRequestSubject,
	}
}

// LeadRelay validates lead payloads and forwards them by email.
// It holds no per-request state and is safe for concurrent use.
type LeadRelay struct {
	cfg       RelayConfig
	transport mail.Transport
	events    EventPublisher
	metrics   *metrics.RelayMetrics
	logger    *logger.Logger
	validate  *validator.Validate
	now       func() time.Time
}

// Option customizes a LeadRelay.
type Option func(*LeadRelay)

// WithEventPublisher publishes lead.submitted events after each send.
func WithEventPublisher(p EventPublisher) Option {
	return func(r *LeadRelay) { r.events = p }
}

// WithMetrics records submissions and send latency.
func WithMetrics(m *metrics.RelayMetrics) Option {
	return func(r *LeadRelay) { r.metrics = m }
}

// WithLogger sets the relay logger.
func WithLogger(l *logger.Logger) Option {
	return func(r *LeadRelay) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewLeadRelay builds a relay around transport. From and To are required.
func NewLeadRelay(cfg RelayConfig, transport mail.Transport, opts ...Option) (*LeadRelay, error) {
	if transport == nil {
		return nil, fmt.Errorf("relay: mail transport is required")
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("relay: sender and recipient are required")
	}
	if cfg.CallSubject == "" {
		cfg.CallSubject = config.CallRequestSubject
	}
	if cfg.CalculatorSubject == "" {
		cfg.CalculatorSubject = config.CalculatorRequestSubject
	}

	r := &LeadRelay{
		cfg:       cfg,
		transport: transport,
		logger:    logger.Default(),
		validate:  newValidator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "relay")
	return r, nil
}

// SendCallRequest forwards a "request a call" lead.
func (r *LeadRelay) SendCallRequest(ctx context.Context, req models.CallRequest) (mail.Receipt, error) {
	req = NormalizeCallRequest(req)
	if err := r.validate.Struct(req); err != nil {
		r.metrics.ObserveSubmission(string(models.FormCallRequest), "invalid")
		return mail.Receipt{}, validationError(err)
	}

	body, err := render("call_request.html", req)
	if err != nil {
		return mail.Receipt{}, err
	}

	receipt, err := r.send(ctx, models.FormCallRequest, r.cfg.CallSubject, body)
	if err != nil {
		return mail.Receipt{}, err
	}

	r.publish(ctx, models.LeadSubmittedEvent{
		Form:      models.FormCallRequest,
		Phone:     req.Phone,
		MessageID: receipt.MessageID,
	})
	return receipt, nil
}

// SendCalculatorRequest forwards a "request a price calculation" lead.
func (r *LeadRelay) SendCalculatorRequest(ctx context.Context, req models.CalculationRequest) (mail.Receipt, error) {
	req = NormalizeCalculationRequest(req)
	if err := r.validate.Struct(req); err != nil {
		r.metrics.ObserveSubmission(string(models.FormCalculatorRequest), "invalid")
		return mail.Receipt{}, validationError(err)
	}

	body, err := render("calculator_request.html", req)
	if err != nil {
		return mail.Receipt{}, err
	}

	receipt, err := r.send(ctx, models.FormCalculatorRequest, r.cfg.CalculatorSubject, body)
	if err != nil {
		return mail.Receipt{}, err
	}

	r.publish(ctx, models.LeadSubmittedEvent{
		Form:      models.FormCalculatorRequest,
		Phone:     req.Phone,
		Material:  req.Material,
		Volume:    req.Volume,
		MessageID: receipt.MessageID,
	})
	return receipt, nil
}

func (r *LeadRelay) send(ctx context.Context, form models.Form, subject, body string) (mail.Receipt, error) {
	msg := mail.Message{
		From:     r.cfg.From,
		FromName: r.cfg.FromName,
		To:       r.cfg.To,
		Subject:  subject,
		HTML:     body,
		Tag:      string(form),
	}

	start := r.now()
	receipt, err := r.transport.Send(ctx, msg)
	elapsed := r.now().Sub(start).Seconds()

	provider := receipt.Provider
	if provider == "" {
		provider = "unknown"
	}
	r.metrics.ObserveSend(provider, err == nil, elapsed)

	if err != nil {
		r.metrics.ObserveSubmission(string(form), "failed")
		r.logger.Error("error sending email", "form", form, "error", err)
		return mail.Receipt{}, apperrors.NewUnavailableError("mail transport failed", err)
	}

	r.metrics.ObserveSubmission(string(form), "sent")
	r.logger.Info("email sent", "form", form, "provider", receipt.Provider, "message_id", receipt.MessageID)
	return receipt, nil
}

// publish is best-effort; a failed event never fails the submission.
func (r *LeadRelay) publish(ctx context.Context, event models.LeadSubmittedEvent) {
	if r.events == nil {
		return
	}
	event.EventID = uuid.NewString()
	event.EventType = models.EventLeadSubmitted
	event.Timestamp = r.now().UTC()

	if err := r.events.Publish(ctx, event.Phone, event); err != nil {
		r.logger.Warn("failed to publish lead.submitted event", "form", event.Form, "error", err)
	}
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := leadTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", apperrors.E(apperrors.Internal, "render email template", err)
	}
	return buf.String(), nil
}

// NormalizeCallRequest sanitizes free text and strips phone formatting.
func NormalizeCallRequest(req models.CallRequest) models.CallRequest {
	req.Name = utils.SanitizeTextInput(req.Name)
	req.Phone = utils.ValidatePhone(req.Phone).Sanitized
	req.PreferredTime = utils.SanitizeTextInput(req.PreferredTime)
	req.Question = utils.SanitizeTextInput(req.Question)
	return req
}

// NormalizeCalculationRequest sanitizes free text, resolves the material to its
// catalog label and makes sure the volume carries its unit.
func NormalizeCalculationRequest(req models.CalculationRequest) models.CalculationRequest {
	req.Name = utils.SanitizeTextInput(req.Name)
	req.Phone = utils.ValidatePhone(req.Phone).Sanitized
	req.Address = utils.SanitizeTextInput(req.Address)
	req.TotalCost = utils.SanitizeTextInput(req.TotalCost)

	req.Material = utils.SanitizeTextInput(req.Material)
	if m, ok := models.FindMaterial(req.Material); ok {
		req.Material = m.Label
	}

	req.Volume = utils.SanitizeTextInput(req.Volume)
	if req.Volume != "" && !strings.HasSuffix(req.Volume, "м³") {
		req.Volume = utils.FormatVolume(req.Volume)
	}
	return req
}
