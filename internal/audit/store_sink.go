package audit

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"accounts-service/internal/models"
)

// Store is the persistence surface the StoreSink needs; satisfied by
// repository.AuditRepository.
type Store interface {
	CreateAuditLog(log *models.AuditLog) error
}

// StoreSink persists events to the audit log table. Writes happen on the
// caller's goroutine but failures are only logged, never returned.
type StoreSink struct {
	store  Store
	logger *logrus.Entry
}

func NewStoreSink(store Store, logger *logrus.Logger) *StoreSink {
	return &StoreSink{
		store:  store,
		logger: logger.WithField("component", "audit.store_sink"),
	}
}

func (s *StoreSink) Record(_ context.Context, event Event) {
	log := &models.AuditLog{
		TenantID:     event.TenantID,
		ActorID:      event.ActorID,
		ActorType:    event.ActorType,
		Action:       event.Action,
		Category:     event.Category,
		Description:  event.Description,
		ResourceType: event.ResourceType,
		ResourceID:   event.ResourceID,
		Status:       event.Status,
		RiskLevel:    event.RiskLevel,
		CreatedAt:    event.Timestamp,
	}
	log.Before = marshalSnapshot(s.logger, "before", event.Before)
	log.After = marshalSnapshot(s.logger, "after", event.After)
	if len(event.Metadata) > 0 {
		log.Metadata = marshalSnapshot(s.logger, "metadata", event.Metadata)
	}

	if err := s.store.CreateAuditLog(log); err != nil {
		s.logger.WithError(err).WithField("action", event.Action).Warn("Failed to persist audit event")
	}
}

func marshalSnapshot(logger *logrus.Entry, field string, value interface{}) datatypes.JSON {
	if value == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		logger.WithError(err).WithField("field", field).Warn("Failed to encode audit snapshot")
		return nil
	}
	return datatypes.JSON(data)
}
