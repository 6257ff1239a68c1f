package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Fixed mail routing. The destination mailbox is not configurable.
const (
	LeadRecipient            = "tima.golubev@mail.ru"
	CallRequestSubject       = "Новая заявка на звонок"
	CalculatorRequestSubject = "Новая заявка на расчёт стоимости"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"3001"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Mail account identifier and secret
	EmailUser string `env:"EMAIL_USER"`
	EmailPass string `env:"EMAIL_PASS"`

	// Sender address; falls back to EmailUser (the SMTP login) when empty
	MailFrom string `env:"MAIL_FROM"`

	MailProvider string `env:"MAIL_PROVIDER" envDefault:"smtp"`
	SMTPHost     string `env:"SMTP_HOST" envDefault:"smtp.yandex.ru"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"465"`

	SendGridAPIKey       string `env:"SENDGRID_API_KEY"`
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	AWSRegion            string `env:"AWS_REGION" envDefault:"eu-central-1"`
	// Static SES keys; the default AWS credential chain is used when empty
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	StaticDir          string   `env:"STATIC_DIR" envDefault:"dist"`

	// Kafka (comma-separated brokers, empty disables lead events)
	KafkaBrokers   string `env:"KAFKA_BROKERS"`
	KafkaLeadTopic string `env:"KAFKA_LEAD_TOPIC" envDefault:"leads.submitted"`
}

// envLocations lists where LoadConfig looks for a .env file, first hit wins.
var envLocations = []string{
	".env",              // project root
	"server/.env",       // relay subdirectory
	"config/.env",       // config subdirectory
	"../config/.env",    // one level up
	"../../config/.env", // two levels up
}

// LoadConfig reads an optional .env file and parses the process environment.
func LoadConfig() (*Config, error) {
	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("No .env file found, using environment variables")
	}

	return Parse()
}

// Parse builds a Config from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	cfg.MailProvider = strings.ToLower(strings.TrimSpace(cfg.MailProvider))
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// Brokers splits KafkaBrokers and drops empty entries.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// MailCredentialsLoaded reports whether the mail account identifier and secret are present.
func (c *Config) MailCredentialsLoaded() bool {
	return c.EmailUser != "" && c.EmailPass != ""
}

// Sender returns the From address of lead emails.
func (c *Config) Sender() string {
	if from := strings.TrimSpace(c.MailFrom); from != "" {
		return from
	}
	return c.EmailUser
}
