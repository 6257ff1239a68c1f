package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"lead-relay/logger"
)

type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESConfig holds configuration for AWS SES. Static keys are optional; the
// default credential chain is used when they are empty.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// SESTransport sends emails via AWS SES.
type SESTransport struct {
	client sesClient
	logger *logger.Logger
}

// NewSESTransport loads AWS configuration and creates an SES v2 client.
func NewSESTransport(ctx context.Context, cfg SESConfig, log *logger.Logger) (*SESTransport, error) {
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: AWS_REGION is required for ses", ErrInvalidConfig)
	}
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("mail: load aws config: %w", err)
	}
	return newSESTransport(sesv2.NewFromConfig(awsCfg), log), nil
}

func newSESTransport(client sesClient, log *logger.Logger) *SESTransport {
	if log == nil {
		log = logger.Default()
	}
	return &SESTransport{client: client, logger: log}
}

// Send sends an email via AWS SES.
func (t *SESTransport) Send(ctx context.Context, msg Message) (Receipt, error) {
	if err := msg.Validate(); err != nil {
		return Receipt{}, err
	}

	fromAddress := msg.From
	if msg.FromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", msg.FromName, msg.From)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{},
			},
		},
	}
	if msg.Text != "" {
		input.Content.Simple.Body.Text = &types.Content{
			Data:    aws.String(msg.Text),
			Charset: aws.String("UTF-8"),
		}
	}
	if msg.HTML != "" {
		input.Content.Simple.Body.Html = &types.Content{
			Data:    aws.String(msg.HTML),
			Charset: aws.String("UTF-8"),
		}
	}

	output, err := t.client.SendEmail(ctx, input)
	if err != nil {
		t.logger.Error("SES send failed", "error", err, "to", msg.To)
		return Receipt{}, fmt.Errorf("mail: SES send failed: %w", err)
	}

	messageID := aws.ToString(output.MessageId)
	t.logger.Info("email sent via SES", "to", msg.To, "subject", msg.Subject, "message_id", messageID)
	return Receipt{Provider: "ses", MessageID: messageID}, nil
}

var _ Transport = (*SESTransport)(nil)
