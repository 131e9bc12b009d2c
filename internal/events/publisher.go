package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects for domain events other services can subscribe to
const (
	SubjectLeadCreated     = "reputation.lead.created"
	SubjectReviewSubmitted = "reputation.review.submitted"
	SubjectContactCreated  = "reputation.contact.created"
)

// Publisher publishes domain events to NATS. Publishing is fire-and-forget:
// a publish failure is logged and never surfaced to the request path.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// Event is the wire envelope for domain events
type Event struct {
	ClientID   string      `json:"clientId"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// NewPublisher connects to NATS with production-ready reconnect settings.
// maxReconnects of -1 means unlimited reconnects.
func NewPublisher(url string, maxReconnects int, reconnectWait time.Duration) (*Publisher, error) {
	logger := logrus.WithField("component", "events")

	if maxReconnects == 0 {
		maxReconnects = -1
	}

	opts := []nats.Option{
		nats.Name("reputation-service"),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
		nats.Timeout(10 * time.Second),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warnf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Infof("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}

	logger.Infof("Connected to NATS at %s", url)
	return &Publisher{conn: conn, logger: logger}, nil
}

// Publish emits a domain event. Errors are logged and swallowed; event
// delivery is advisory and must never block or fail the primary operation.
func (p *Publisher) Publish(subject, clientID string, data interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	payload, err := json.Marshal(Event{
		ClientID:   clientID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		p.logger.Warnf("Failed to marshal event %s: %v", subject, err)
		return
	}

	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.Warnf("Failed to publish event %s: %v", subject, err)
	}
}

// Close drains the connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}
