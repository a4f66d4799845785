package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"accounts-service/internal/events"
)

func TestPublisherSinkRecordsNothingBeforeAttach(t *testing.T) {
	logger := logrus.New()
	sink := NewPublisherSink(nil, logger)

	// Must be a no-op, not a panic, while NATS is still connecting.
	sink.Record(context.Background(), Event{
		Action:    ActionAccountCreated,
		Timestamp: time.Now().UTC(),
	})
}

func TestPublisherSinkAttachDuringRecording(t *testing.T) {
	logger := logrus.New()
	sink := NewPublisherSink(nil, logger)

	// The publisher is attached from the background connect goroutine while
	// request goroutines keep recording; run both sides concurrently so the
	// race detector covers the handoff. A zero-value publisher reports not
	// connected, so Record stays a no-op either way.
	resourceID := uuid.New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sink.Record(context.Background(), Event{
					TenantID:   "tenant-1",
					Action:     ActionAccountDeactivated,
					ResourceID: &resourceID,
					Timestamp:  time.Now().UTC(),
				})
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			sink.SetPublisher(&events.Publisher{})
		}
	}()
	wg.Wait()
}
