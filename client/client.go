// Package client submits the site's lead forms to the relay.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"lead-relay/logger"
	"lead-relay/utils"
)

const (
	callRequestPath       = "/api/send-call-request"
	calculatorRequestPath = "/api/send-calculator-request"
)

// Variant selects how a notification is styled.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is the toast shown to the visitor after a submit attempt.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// IsError reports whether the notification describes a failure.
func (n Notification) IsError() bool {
	return n.Variant == VariantDestructive
}

func errorNotice(description string) Notification {
	return Notification{Title: "Ошибка", Description: description, Variant: VariantDestructive}
}

var (
	noticeCallMissingFields = errorNotice("Пожалуйста, укажите ваше имя и телефон")
	noticeCalcMissingFields = errorNotice("Пожалуйста, заполните все обязательные поля")
	noticeInvalidPhone      = errorNotice("Пожалуйста, введите корректный номер телефона")
	noticeInvalidVolume     = errorNotice("Пожалуйста, введите корректный объём (от 0.1 до 1000 м³)")

	noticeSendFailed = Notification{
		Title:       "Ошибка отправки",
		Description: "Не удалось отправить заявку. Пожалуйста, попробуйте еще раз.",
		Variant:     VariantDestructive,
	}
	noticeCallAccepted = Notification{
		Title:       "Заявка на звонок принята!",
		Description: "Мы перезвоним вам в течение 15 минут в рабочее время.",
		Variant:     VariantDefault,
	}
	noticeCalcAccepted = Notification{
		Title:       "Заявка отправлена!",
		Description: "Мы свяжемся с вами в течение 15 минут для уточнения деталей заказа.",
		Variant:     VariantDefault,
	}
)

const (
	minVolume = 0.1
	maxVolume = 1000
)

// Client posts lead forms to the relay.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *logger.Logger) ClientOption {
	return func(c *Client) {
		c.logger = log
	}
}

// NewClient creates a relay client. The default HTTP client has no timeout;
// callers bound a submission through ctx.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SubmitCall validates the call-back form and posts it. On success the form is
// reset and closed; on failure it is left untouched for another attempt.
func (c *Client) SubmitCall(ctx context.Context, form *CallForm) Notification {
	if form.Name == "" || form.Phone == "" {
		return noticeCallMissingFields
	}
	if !utils.ValidatePhone(form.Phone).IsValid {
		return noticeInvalidPhone
	}

	if err := c.post(ctx, callRequestPath, form.request()); err != nil {
		c.logger.Error("Error submitting form", "form", "call-request", "error", err)
		return noticeSendFailed
	}

	form.Reset()
	form.Closed = true
	return noticeCallAccepted
}

// SubmitCalculation validates the calculator form and posts it together with
// the material label, the volume with its unit and the estimated total.
func (c *Client) SubmitCalculation(ctx context.Context, form *CalculatorForm) Notification {
	if form.Material == "" || form.Volume == "" || form.Address == "" || form.Phone == "" {
		return noticeCalcMissingFields
	}
	if !utils.ValidatePhone(form.Phone).IsValid {
		return noticeInvalidPhone
	}
	if !utils.ValidateNumeric(form.Volume, minVolume, maxVolume).IsValid {
		return noticeInvalidVolume
	}

	if err := c.post(ctx, calculatorRequestPath, form.request()); err != nil {
		c.logger.Error("Error submitting form", "form", "calculator-request", "error", err)
		return noticeSendFailed
	}

	form.Reset()
	form.Closed = true
	return noticeCalcAccepted
}

func (c *Client) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("client: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("client: relay returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
