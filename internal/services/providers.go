package services

import (
	"context"
)

// Provider represents an outbound message provider interface
type Provider interface {
	Send(ctx context.Context, message *Message) (*SendResult, error)
	GetName() string
	SupportsChannel() string
}

// Message represents a message to be sent
type Message struct {
	To       string
	Subject  string
	Body     string
	BodyHTML string
	From     string
	FromName string
	ReplyTo  string
	Metadata map[string]interface{}
}

// SendResult represents the result of a send operation
type SendResult struct {
	ProviderID   string
	ProviderName string
	Success      bool
	Error        error
	ProviderData map[string]interface{}
}

// ProviderConfig represents provider configuration
type ProviderConfig struct {
	// AWS credentials (shared for SES and SNS)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// AWS SES (primary email)
	SESFrom     string
	SESFromName string

	// AWS SNS (fallback SMS)
	SNSFrom string // Sender ID or origination number

	// SendGrid (fallback email)
	SendGridAPIKey string
	SendGridFrom   string

	// Twilio (primary SMS + voice)
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
}
