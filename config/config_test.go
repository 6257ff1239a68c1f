package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MAIL_PROVIDER", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, ":3001", cfg.Addr())
	assert.Equal(t, "smtp", cfg.MailProvider)
	assert.Equal(t, "smtp.yandex.ru", cfg.SMTPHost)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.Brokers())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "127.0.0.1:9000")
	t.Setenv("EMAIL_USER", "relay@yandex.ru")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("MAIL_PROVIDER", " SendGrid ")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
	assert.True(t, cfg.MailCredentialsLoaded())
	assert.Equal(t, "sendgrid", cfg.MailProvider)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Brokers())
}

func TestParseRejectsBadPort(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	_, err := Parse()
	require.Error(t, err)
}

func TestSender(t *testing.T) {
	t.Setenv("EMAIL_USER", "relay@yandex.ru")
	t.Setenv("MAIL_FROM", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIAEXAMPLEKEY")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "aws-secret")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "relay@yandex.ru", cfg.Sender())
	assert.Equal(t, "AKIAEXAMPLEKEY", cfg.AWSAccessKeyID)
	assert.Equal(t, "aws-secret", cfg.AWSSecretAccessKey)

	cfg.MailFrom = " zayavki@stroy.ru "
	assert.Equal(t, "zayavki@stroy.ru", cfg.Sender())
}

func TestMailCredentialsMissing(t *testing.T) {
	t.Setenv("EMAIL_USER", "relay@yandex.ru")
	t.Setenv("EMAIL_PASS", "")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.False(t, cfg.MailCredentialsLoaded())
}
