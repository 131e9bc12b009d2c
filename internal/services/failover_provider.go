package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// FailoverProvider tries a chain of providers for one channel in order until
// a send succeeds. Failover is per-invocation only; there is no queueing and
// no delayed retry beyond the immediate attempts below.
type FailoverProvider struct {
	channel        string
	providers      []Provider
	enableFailover bool
	maxRetries     int
	retryDelay     time.Duration
	logger         *logrus.Entry
}

// FailoverConfig configures the failover behavior
type FailoverConfig struct {
	EnableFailover bool
	MaxRetries     int
	RetryDelay     time.Duration
}

// NewFailoverProvider creates a failover chain for a channel. Providers are
// tried in order: first provider is primary, others are fallbacks.
func NewFailoverProvider(channel string, providers []Provider, config *FailoverConfig) *FailoverProvider {
	if config == nil {
		config = &FailoverConfig{
			EnableFailover: true,
			MaxRetries:     1,
			RetryDelay:     2 * time.Second,
		}
	}

	validProviders := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p != nil {
			validProviders = append(validProviders, p)
		}
	}

	return &FailoverProvider{
		channel:        channel,
		providers:      validProviders,
		enableFailover: config.EnableFailover,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
		logger:         logrus.WithField("component", "failover_"+strings.ToLower(channel)),
	}
}

// Send sends a message with automatic failover
func (f *FailoverProvider) Send(ctx context.Context, message *Message) (*SendResult, error) {
	if len(f.providers) == 0 {
		err := fmt.Errorf("no %s providers configured", strings.ToLower(f.channel))
		return &SendResult{
			ProviderName: "Failover",
			Success:      false,
			Error:        err,
		}, err
	}

	startTime := time.Now()
	var lastError error
	var allErrors []string

	for i, provider := range f.providers {
		providerName := provider.GetName()

		if ctx.Err() != nil {
			return &SendResult{
				ProviderName: "Failover",
				Success:      false,
				Error:        ctx.Err(),
			}, ctx.Err()
		}

		for attempt := 0; attempt <= f.maxRetries; attempt++ {
			if attempt > 0 {
				f.logger.Warnf("Retry %d/%d for %s", attempt, f.maxRetries, providerName)
				time.Sleep(f.retryDelay)
			}

			result, err := provider.Send(ctx, message)
			if err == nil && result.Success {
				if result.ProviderData == nil {
					result.ProviderData = make(map[string]interface{})
				}
				result.ProviderData["failover_attempts"] = i + 1
				result.ProviderData["failover_total_duration"] = time.Since(startTime).String()
				return result, nil
			}

			if err != nil {
				lastError = err
				allErrors = append(allErrors, fmt.Sprintf("%s: %v", providerName, err))
				f.logger.Warnf("%s failed (attempt %d): %v", providerName, attempt+1, err)
			} else if result != nil && !result.Success {
				lastError = result.Error
				if result.Error != nil {
					allErrors = append(allErrors, fmt.Sprintf("%s: %v", providerName, result.Error))
				} else {
					allErrors = append(allErrors, fmt.Sprintf("%s: send failed without error", providerName))
				}
				f.logger.Warnf("%s returned failure (attempt %d)", providerName, attempt+1)
			}
		}

		if !f.enableFailover {
			f.logger.Info("Failover disabled, not trying next provider")
			break
		}
	}

	errorSummary := strings.Join(allErrors, "; ")
	finalError := fmt.Errorf("all %s providers failed: %s", strings.ToLower(f.channel), errorSummary)
	f.logger.Errorf("All providers failed after %v: %s", time.Since(startTime), errorSummary)

	return &SendResult{
		ProviderName: "Failover",
		Success:      false,
		Error:        lastError,
		ProviderData: map[string]interface{}{
			"all_errors":     allErrors,
			"total_attempts": len(f.providers),
			"duration":       time.Since(startTime).String(),
		},
	}, finalError
}

// GetName returns the provider name
func (f *FailoverProvider) GetName() string {
	if len(f.providers) == 0 {
		return "Failover(none)"
	}

	names := make([]string, len(f.providers))
	for i, p := range f.providers {
		names[i] = p.GetName()
	}
	return fmt.Sprintf("Failover(%s)", strings.Join(names, "->"))
}

// SupportsChannel returns the supported channel
func (f *FailoverProvider) SupportsChannel() string {
	return f.channel
}
