package mail

import (
	"context"
	"fmt"

	"lead-relay/config"
	"lead-relay/logger"
)

// Provider names accepted in MAIL_PROVIDER.
const (
	ProviderSMTP     = "smtp"
	ProviderSendGrid = "sendgrid"
	ProviderSES      = "ses"
	ProviderPostmark = "postmark"
	ProviderLog      = "log"
)

// NewTransport picks the transport named by cfg.MailProvider.
func NewTransport(ctx context.Context, cfg *config.Config, log *logger.Logger) (Transport, error) {
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "mail", "provider", cfg.MailProvider)

	var (
		t   Transport
		err error
	)
	switch cfg.MailProvider {
	case ProviderSMTP, "":
		t, err = asTransport(NewSMTPTransport(SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
		}, log))
	case ProviderSendGrid:
		t, err = asTransport(NewSendGridTransport(cfg.SendGridAPIKey, log))
	case ProviderSES:
		t, err = asTransport(NewSESTransport(ctx, SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		}, log))
	case ProviderPostmark:
		t, err = asTransport(NewPostmarkTransport(cfg.PostmarkServerToken, cfg.PostmarkAccountToken, log))
	case ProviderLog:
		t = NewLogTransport(log)
	default:
		err = fmt.Errorf("%w: unknown MAIL_PROVIDER %q", ErrInvalidConfig, cfg.MailProvider)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// asTransport keeps a failed constructor's typed nil out of the interface.
func asTransport[T Transport](t T, err error) (Transport, error) {
	if err != nil {
		return nil, err
	}
	return t, nil
}
