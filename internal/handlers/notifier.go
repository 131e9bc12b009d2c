package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"reputation-service/internal/metrics"
	"reputation-service/internal/notify"
	"reputation-service/internal/services"
)

// Notifier delivers policy-decided messages through the configured channel
// providers. Delivery is strictly best-effort: failures are logged, counted
// and swallowed so the primary operation (lead creation, review recording,
// contact creation) never fails because a message could not be sent.
type Notifier struct {
	sms    services.Provider
	email  services.Provider
	logger *logrus.Entry
}

// NewNotifier creates a new notifier. Either provider may be nil when the
// channel is not configured; sends on that channel are then skipped.
func NewNotifier(sms, email services.Provider) *Notifier {
	return &Notifier{
		sms:    sms,
		email:  email,
		logger: logrus.WithField("component", "notifier"),
	}
}

// Send delivers one outbound message. kind tags the notification kind for
// logging and metrics (lead_response, missed_call, owner_feedback,
// review_request). Returns whether the provider accepted the message.
func (n *Notifier) Send(ctx context.Context, kind string, msg *notify.Outbound) bool {
	if msg == nil {
		return false
	}

	var provider services.Provider
	switch msg.Channel {
	case notify.ChannelSMS:
		provider = n.sms
	case notify.ChannelEmail:
		provider = n.email
	}

	if provider == nil {
		n.logger.Warnf("No provider configured for channel %s, dropping %s message", msg.Channel, kind)
		metrics.RecordSend(string(msg.Channel), kind, false)
		return false
	}

	result, err := provider.Send(ctx, &services.Message{
		To:       msg.To,
		From:     msg.From,
		FromName: msg.FromName,
		Subject:  msg.Subject,
		Body:     msg.Body,
		BodyHTML: msg.BodyHTML,
	})
	if err != nil || result == nil || !result.Success {
		n.logger.WithFields(logrus.Fields{
			"kind":    kind,
			"channel": msg.Channel,
			"to":      msg.To,
		}).Warnf("Send failed: %v", err)
		metrics.RecordSend(string(msg.Channel), kind, false)
		return false
	}

	n.logger.WithFields(logrus.Fields{
		"kind":     kind,
		"channel":  msg.Channel,
		"provider": result.ProviderName,
	}).Info("Message sent")
	metrics.RecordSend(string(msg.Channel), kind, true)
	return true
}
