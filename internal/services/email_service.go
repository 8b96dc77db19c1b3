package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"go.uber.org/zap"

	"github.com/kidwell/api-backend/internal/templates"
)

// DigestSender delivers generated advice to a parent
type DigestSender interface {
	SendAdviceDigest(ctx context.Context, toEmail, logDate, advice string) error
}

// sesAPI is the subset of the SES v2 client used here
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles email sending via AWS SES
type EmailService struct {
	client    sesAPI
	fromEmail string
	templates *templates.TemplateRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// EmailConfig holds configuration for email service
type EmailConfig struct {
	// FromEmail is the email address that will appear in the From field
	FromEmail string
	// Region is the AWS region for SES (e.g., "us-east-1", "eu-west-1")
	Region string
}

// NewEmailService creates a new email service instance
func NewEmailService(ctx context.Context, cfg *EmailConfig, logger *zap.Logger) (*EmailService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("email config is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	// Environment variables -> shared config file -> IAM role
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newEmailService(sesv2.NewFromConfig(awsCfg), cfg.FromEmail, logger)
}

func newEmailService(client sesAPI, fromEmail string, logger *zap.Logger) (*EmailService, error) {
	tmplRenderer, err := templates.NewTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize templates: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		templates: tmplRenderer,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// SendAdviceDigest emails the advice generated for one daily log
func (s *EmailService) SendAdviceDigest(ctx context.Context, toEmail, logDate, advice string) error {
	if toEmail == "" {
		return fmt.Errorf("recipient email is required")
	}
	if advice == "" {
		return fmt.Errorf("advice is required")
	}

	generatedAt := s.now()
	subject := fmt.Sprintf("Health advice for %s", logDate)

	htmlBody, err := s.templates.RenderAdviceDigestHTML(logDate, advice, generatedAt)
	if err != nil {
		return fmt.Errorf("failed to render HTML template: %w", err)
	}

	textBody, err := s.templates.RenderAdviceDigestText(logDate, advice, generatedAt)
	if err != nil {
		return fmt.Errorf("failed to render text template: %w", err)
	}

	if err := s.sendEmail(ctx, toEmail, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send advice digest: %w", err)
	}

	return nil
}

// sendEmail sends an email via AWS SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("SES SendEmail failed: %w", err)
	}

	messageID := ""
	if result != nil && result.MessageId != nil {
		messageID = *result.MessageId
	}
	s.logger.Info("email sent", zap.String("to", toEmail), zap.String("message_id", messageID))

	return nil
}
