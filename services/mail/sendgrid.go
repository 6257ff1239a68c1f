package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"lead-relay/logger"
)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

// SendGridTransport sends emails via the SendGrid v3 API.
type SendGridTransport struct {
	client sendGridClient
	logger *logger.Logger
}

// NewSendGridTransport creates a SendGrid transport. An API key is required.
func NewSendGridTransport(apiKey string, log *logger.Logger) (*SendGridTransport, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: SENDGRID_API_KEY is required", ErrInvalidConfig)
	}
	if log == nil {
		log = logger.Default()
	}
	return &SendGridTransport{client: sendgrid.NewSendClient(apiKey), logger: log}, nil
}

// Send sends an email via SendGrid.
func (t *SendGridTransport) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	from := sgmail.NewEmail(msg.FromName, msg.From)
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.Text, msg.HTML)
	if msg.Tag != "" {
		message.AddCategories(msg.Tag)
	}

	response, err := t.client.SendWithContext(ctx, message)
	if err != nil {
		t.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return Receipt{}, fmt.Errorf("mail: sendgrid send failed: %w", err)
	}
	if response.StatusCode >= 400 {
		t.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.To)
		return Receipt{}, fmt.Errorf("mail: sendgrid returned status %d", response.StatusCode)
	}

	var messageID string
	if ids := response.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}

	t.logger.Info("email sent via sendgrid", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode)
	return Receipt{
		Provider:  "sendgrid",
		MessageID: messageID,
		Response:  fmt.Sprintf("%d", response.StatusCode),
	}, nil
}

var _ Transport = (*SendGridTransport)(nil)
