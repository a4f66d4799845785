package audit

import (
	"context"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"accounts-service/internal/events"
)

// PublisherSink mirrors audit events onto the NATS account-events stream so
// downstream services (notifications, reporting) can react to them.
type PublisherSink struct {
	// publisher is swapped in by the background NATS connect while request
	// goroutines read it in Record, so access goes through an atomic pointer.
	publisher atomic.Pointer[events.Publisher]
	logger    *logrus.Entry
}

func NewPublisherSink(publisher *events.Publisher, logger *logrus.Logger) *PublisherSink {
	s := &PublisherSink{
		logger: logger.WithField("component", "audit.publisher_sink"),
	}
	if publisher != nil {
		s.publisher.Store(publisher)
	}
	return s
}

// SetPublisher attaches the NATS publisher once its background connect
// finishes. Events recorded before that are simply not mirrored.
func (s *PublisherSink) SetPublisher(publisher *events.Publisher) {
	s.publisher.Store(publisher)
}

func (s *PublisherSink) Record(_ context.Context, event Event) {
	publisher := s.publisher.Load()
	if publisher == nil || !publisher.IsConnected() {
		return
	}

	subject, ok := subjectFor(event.Action)
	if !ok {
		return
	}

	wire := events.AccountEvent{
		TenantID:  event.TenantID,
		Timestamp: event.Timestamp,
	}
	if event.ResourceID != nil {
		wire.AccountID = event.ResourceID.String()
	}
	if event.ActorID != nil {
		wire.ChangedBy = event.ActorID.String()
	}
	if reason, ok := event.Metadata["reason"].(string); ok {
		wire.Reason = reason
	}
	if count, ok := event.Metadata["cascadedCount"].(int); ok {
		wire.CascadedCount = count
	}

	if err := publisher.Publish(subject, wire); err != nil {
		s.logger.WithError(err).WithField("action", event.Action).Warn("Failed to mirror audit event")
	}
}

func subjectFor(action string) (string, bool) {
	switch action {
	case ActionAccountCreated:
		return events.SubjectAccountCreated, true
	case ActionPermissionsUpdated:
		return events.SubjectPermissionsUpdated, true
	case ActionAccountDeactivated:
		return events.SubjectAccountDeactivated, true
	case ActionAccountReactivated:
		return events.SubjectAccountReactivated, true
	case ActionPermissionDenied:
		return events.SubjectPermissionDenied, true
	default:
		return "", false
	}
}
