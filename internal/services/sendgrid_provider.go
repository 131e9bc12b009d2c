package services

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridProvider implements email sending via SendGrid
type SendGridProvider struct {
	apiKey   string
	from     string
	fromName string
	client   *sendgrid.Client
}

// NewSendGridProvider creates a new SendGrid email provider
func NewSendGridProvider(config *ProviderConfig) *SendGridProvider {
	return &SendGridProvider{
		apiKey:   config.SendGridAPIKey,
		from:     config.SendGridFrom,
		fromName: "Reputation Service",
		client:   sendgrid.NewSendClient(config.SendGridAPIKey),
	}
}

// Send sends an email via SendGrid
func (p *SendGridProvider) Send(ctx context.Context, message *Message) (*SendResult, error) {
	from := mail.NewEmail(p.fromName, p.from)
	if message.From != "" {
		fromName := message.FromName
		if fromName == "" {
			fromName = message.From
		}
		from = mail.NewEmail(fromName, message.From)
	}

	to := mail.NewEmail("", message.To)
	m := mail.NewSingleEmail(from, message.Subject, to, message.Body, message.BodyHTML)

	if message.ReplyTo != "" {
		m.SetReplyTo(mail.NewEmail("", message.ReplyTo))
	}

	response, err := p.client.SendWithContext(ctx, m)
	if err != nil {
		return &SendResult{
			ProviderName: "SendGrid",
			Success:      false,
			Error:        err,
		}, err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		messageID := ""
		if ids, ok := response.Headers["X-Message-Id"]; ok && len(ids) > 0 {
			messageID = ids[0]
		}
		return &SendResult{
			ProviderID:   messageID,
			ProviderName: "SendGrid",
			Success:      true,
			ProviderData: map[string]interface{}{
				"status_code": response.StatusCode,
				"to":          message.To,
			},
		}, nil
	}

	sendErr := fmt.Errorf("SendGrid API error: %d - %s", response.StatusCode, response.Body)
	return &SendResult{
		ProviderName: "SendGrid",
		Success:      false,
		Error:        sendErr,
	}, sendErr
}

// GetName returns the provider name
func (p *SendGridProvider) GetName() string {
	return "SendGrid"
}

// SupportsChannel returns the supported channel
func (p *SendGridProvider) SupportsChannel() string {
	return "EMAIL"
}
