package mail

import (
	"context"

	"github.com/google/uuid"

	"lead-relay/logger"
)

// LogTransport logs messages instead of sending them. Used when MAIL_PROVIDER=log.
type LogTransport struct {
	logger *logger.Logger
}

// NewLogTransport creates a transport that only logs.
func NewLogTransport(log *logger.Logger) *LogTransport {
	if log == nil {
		log = logger.Default()
	}
	return &LogTransport{logger: log}
}

// Send logs the email but doesn't actually send it.
func (t *LogTransport) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}
	id := uuid.NewString()
	t.logger.Info("log transport: would send email", "to", msg.To, "subject", msg.Subject, "message_id", id)
	t.logger.Debug("log transport: email body", "html", msg.HTML)
	return Receipt{Provider: "log", MessageID: id}, nil
}

var _ Transport = (*LogTransport)(nil)
