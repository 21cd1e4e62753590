// internal/email/ses.go
package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	"github.com/courtsidehq/courtside/internal/config"
)

// SESSender delivers plain-text mail through AWS SESv2. It satisfies Sender
// so the payment service can take it or a test double interchangeably.
type SESSender struct {
	client *sesv2.Client
	from   string
}

// NewSESSender builds a sender from the email section of the app config.
// Credentials are static; the facility runs with a dedicated SES IAM user.
func NewSESSender(cfg config.EmailConfig) (*SESSender, error) {
	switch {
	case cfg.Region == "":
		return nil, fmt.Errorf("ses region is required")
	case cfg.Sender == "":
		return nil, fmt.Errorf("ses sender address is required")
	case cfg.AccessKeyID == "" || cfg.SecretAccessKey == "":
		return nil, fmt.Errorf("ses credentials are required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESSender{client: sesv2.NewFromConfig(awsCfg), from: cfg.Sender}, nil
}

// Send delivers one plain-text message to a single recipient.
func (s *SESSender) Send(ctx context.Context, recipient, subject, body string) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("ses sender is not initialized")
	}
	if recipient == "" {
		return fmt.Errorf("recipient is required")
	}

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{recipient}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body:    &types.Body{Text: &types.Content{Data: aws.String(body)}},
			},
		},
	})
	if err != nil {
		log.Ctx(ctx).Error().
			Err(err).
			Str("recipient", recipient).
			Str("subject", subject).
			Msg("Failed to send email")
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
