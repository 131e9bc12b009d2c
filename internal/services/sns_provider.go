package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSProvider implements SMS sending via AWS SNS
type SNSProvider struct {
	client *sns.Client
	from   string // Sender ID or origination number
	region string
}

// NewSNSProvider creates a new AWS SNS SMS provider
func NewSNSProvider(cfg *ProviderConfig) (*SNSProvider, error) {
	var awsOpts []func(*config.LoadOptions) error

	if cfg.AWSRegion != "" {
		awsOpts = append(awsOpts, config.WithRegion(cfg.AWSRegion))
	}

	// Explicit credentials when provided, otherwise the default chain
	// (environment vars, shared config, instance role, pod identity)
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		awsOpts = append(awsOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AWSAccessKeyID,
				cfg.AWSSecretAccessKey,
				"",
			),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), awsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SNSProvider{
		client: sns.NewFromConfig(awsCfg),
		from:   cfg.SNSFrom,
		region: cfg.AWSRegion,
	}, nil
}

// Send sends an SMS via AWS SNS
func (p *SNSProvider) Send(ctx context.Context, message *Message) (*SendResult, error) {
	input := &sns.PublishInput{
		Message:     aws.String(message.Body),
		PhoneNumber: aws.String(message.To),
	}

	input.MessageAttributes = make(map[string]types.MessageAttributeValue)

	// Lead auto-responses and review requests are transactional traffic
	input.MessageAttributes["AWS.SNS.SMS.SMSType"] = types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String("Transactional"),
	}

	// Sender ID is not supported in all regions/countries
	if p.from != "" {
		input.MessageAttributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(p.from),
		}
	}

	result, err := p.client.Publish(ctx, input)
	if err != nil {
		return &SendResult{
			ProviderName: "AWS SNS",
			Success:      false,
			Error:        fmt.Errorf("SNS send failed: %w", err),
		}, err
	}

	return &SendResult{
		ProviderID:   aws.ToString(result.MessageId),
		ProviderName: "AWS SNS",
		Success:      true,
		ProviderData: map[string]interface{}{
			"message_id": aws.ToString(result.MessageId),
			"to":         message.To,
			"region":     p.region,
		},
	}, nil
}

// GetName returns the provider name
func (p *SNSProvider) GetName() string {
	return "AWS SNS"
}

// SupportsChannel returns the supported channel
func (p *SNSProvider) SupportsChannel() string {
	return "SMS"
}
