package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"lead-relay/logger"
)

// ErrPostmarkRejected wraps a non-zero Postmark ErrorCode.
var ErrPostmarkRejected = errors.New("mail: postmark rejected message")

type postmarkClient interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkTransport sends mail through Postmark's transactional API.
type PostmarkTransport struct {
	client postmarkClient
	logger *logger.Logger
}

// NewPostmarkTransport requires both the server and the account token.
func NewPostmarkTransport(serverToken, accountToken string, log *logger.Logger) (*PostmarkTransport, error) {
	if serverToken == "" {
		return nil, fmt.Errorf("%w: POSTMARK_SERVER_TOKEN is required", ErrInvalidConfig)
	}
	if accountToken == "" {
		return nil, fmt.Errorf("%w: POSTMARK_ACCOUNT_TOKEN is required", ErrInvalidConfig)
	}
	if log == nil {
		log = logger.Default()
	}
	return &PostmarkTransport{
		client: postmark.NewClient(serverToken, accountToken),
		logger: log,
	}, nil
}

// Send delivers msg. Lead mails are internal, so open/link tracking stays off.
func (t *PostmarkTransport) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	from := msg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.From)
	}

	resp, err := t.client.SendEmail(ctx, postmark.Email{
		From:     from,
		To:       msg.To,
		Subject:  msg.Subject,
		Tag:      msg.Tag,
		HTMLBody: msg.HTML,
		TextBody: msg.Text,
	})
	if err != nil {
		t.logger.Error("postmark send failed", "error", err, "to", msg.To)
		return Receipt{}, fmt.Errorf("mail: postmark send failed: %w", err)
	}
	if resp.ErrorCode > 0 {
		t.logger.Error("postmark rejected message", "code", resp.ErrorCode, "message", resp.Message, "to", msg.To)
		return Receipt{}, fmt.Errorf("%w: %d - %s", ErrPostmarkRejected, resp.ErrorCode, resp.Message)
	}

	t.logger.Info("email sent via postmark", "to", msg.To, "subject", msg.Subject, "message_id", resp.MessageID)
	return Receipt{Provider: "postmark", MessageID: resp.MessageID, Response: resp.Message}, nil
}

var _ Transport = (*PostmarkTransport)(nil)
