package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event captures a sensitive mutation or authorization decision. Before and
// After carry state snapshots where the operation changed stored data.
type Event struct {
	TenantID     string                 `json:"tenantId"`
	ActorID      *uuid.UUID             `json:"actorId,omitempty"`
	ActorType    string                 `json:"actorType"`
	Action       string                 `json:"action"`
	Category     string                 `json:"category"`
	Description  string                 `json:"description"`
	ResourceType string                 `json:"resourceType"`
	ResourceID   *uuid.UUID             `json:"resourceId,omitempty"`
	Status       string                 `json:"status"`
	RiskLevel    string                 `json:"riskLevel"`
	Before       interface{}            `json:"before,omitempty"`
	After        interface{}            `json:"after,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
}

// Event actions emitted by the account service and authorization middleware.
const (
	ActionAccountCreated     = "account_created"
	ActionPermissionsUpdated = "permissions_updated"
	ActionAccountDeactivated = "account_deactivated"
	ActionAccountReactivated = "account_reactivated"
	ActionPermissionDenied   = "permission_denied"
)

const (
	StatusSuccess = "success"
	StatusDenied  = "denied"
	StatusFailed  = "failed"

	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Sink records audit events. Recording is fire-and-forget: implementations
// must never let a sink failure propagate into the triggering operation.
type Sink interface {
	Record(ctx context.Context, event Event)
}

// LogSink writes events to the structured log. It is the fallback sink when
// neither the store nor the event bus is available.
type LogSink struct {
	logger *logrus.Entry
}

func NewLogSink(logger *logrus.Logger) *LogSink {
	return &LogSink{logger: logger.WithField("component", "audit.log_sink")}
}

func (s *LogSink) Record(_ context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to encode audit event")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"action":   event.Action,
		"status":   event.Status,
		"resource": event.ResourceType,
	}).Info(string(payload))
}

// MultiSink fans an event out to every configured sink.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (s *MultiSink) Record(ctx context.Context, event Event) {
	for _, sink := range s.sinks {
		sink.Record(ctx, event)
	}
}
