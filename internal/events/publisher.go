package events

import (
	"encoding/json"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects for account lifecycle events.
const (
	SubjectAccountCreated     = "accounts.created"
	SubjectPermissionsUpdated = "accounts.permissions_updated"
	SubjectAccountDeactivated = "accounts.deactivated"
	SubjectAccountReactivated = "accounts.reactivated"
	SubjectPermissionDenied   = "accounts.permission_denied"

	streamName = "ACCOUNT_EVENTS"
)

// AccountEvent is the wire form of an account lifecycle event.
type AccountEvent struct {
	TenantID      string    `json:"tenantId"`
	AccountID     string    `json:"accountId"`
	AccountEmail  string    `json:"accountEmail,omitempty"`
	Role          string    `json:"role,omitempty"`
	ChangedBy     string    `json:"changedBy,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	CascadedCount int       `json:"cascadedCount,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher publishes account events to NATS JetStream.
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPublisher connects to NATS (NATS_URL env, default cluster-local) and
// ensures the account events stream exists.
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://nats.nats.svc.cluster.local:4222"
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("accounts-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, err
	}

	entry := logger.WithField("component", "events.publisher")

	if _, err := js.StreamInfo(streamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     streamName,
			Subjects: []string{"accounts.>"},
			Storage:  nats.FileStorage,
		})
		if err != nil {
			entry.WithError(err).Warn("Failed to ensure ACCOUNT_EVENTS stream")
		}
	}

	return &Publisher{conn: conn, js: js, logger: entry}, nil
}

// Publish sends an event on the given subject, filling in the timestamp
// when the caller left it zero.
func (p *Publisher) Publish(subject string, event AccountEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if _, err := p.js.Publish(subject, data); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
		return err
	}
	return nil
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close closes the publisher connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
