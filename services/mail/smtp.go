package mail

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"lead-relay/logger"
)

// dialer is the part of *gomail.Dialer the transport uses.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPConfig holds the SMTP account the relay sends from.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPTransport sends mail through an authenticated SMTP account using gomail.
type SMTPTransport struct {
	dialer dialer
	host   string
	logger *logger.Logger
}

// NewSMTPTransport validates cfg and builds a gomail dialer. Port 465 uses implicit TLS.
func NewSMTPTransport(cfg SMTPConfig, log *logger.Logger) (*SMTPTransport, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("%w: smtp host is required", ErrInvalidConfig)
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: smtp credentials not configured (set EMAIL_USER and EMAIL_PASS)", ErrInvalidConfig)
	}
	if cfg.Port == 0 {
		cfg.Port = 465
	}
	if log == nil {
		log = logger.Default()
	}
	return &SMTPTransport{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		host:   cfg.Host,
		logger: log,
	}, nil
}

// Send builds a MIME message and delivers it over one SMTP session.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), t.host)

	m := gomail.NewMessage()
	if msg.FromName != "" {
		m.SetAddressHeader("From", msg.From, msg.FromName)
	} else {
		m.SetHeader("From", msg.From)
	}
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	if msg.Text != "" && msg.HTML != "" {
		m.SetBody("text/plain", msg.Text)
		m.AddAlternative("text/html", msg.HTML)
	} else if msg.HTML != "" {
		m.SetBody("text/html", msg.HTML)
	} else {
		m.SetBody("text/plain", msg.Text)
	}

	t.logger.Debug("sending email via smtp", "to", msg.To, "host", t.host)

	if err := t.dialer.DialAndSend(m); err != nil {
		t.logger.Error("smtp send failed", "error", err, "to", msg.To)
		return Receipt{}, fmt.Errorf("mail: smtp send failed: %w", err)
	}

	t.logger.Info("email sent via smtp", "to", msg.To, "subject", msg.Subject, "message_id", messageID)
	return Receipt{Provider: "smtp", MessageID: messageID, Response: "250 accepted"}, nil
}

var _ Transport = (*SMTPTransport)(nil)
