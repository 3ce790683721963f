// internal/domain/outbox/relay.go
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/pkg/metrics"
	"gorm.io/gorm"
)

// Message is what the relay hands to a Publisher
type Message struct {
	EventID   string
	EventType string
	Topic     string
	Key       string
	Payload   []byte
}

// Publisher delivers messages to a broker
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Enqueue stores an event inside the caller's transaction
func Enqueue(tx *gorm.DB, eventType, topic, key string, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	event := Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Topic:     topic,
		Key:       key,
		Payload:   data,
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, fmt.Errorf("failed to enqueue %s event: %w", eventType, err)
	}
	return &event, nil
}

// Relay polls unsent events and publishes them in id order
type Relay struct {
	db        *gorm.DB
	publisher Publisher
	logger    *logrus.Logger
	metrics   *metrics.Metrics
	interval  time.Duration
	batchSize int
}

// NewRelay creates a relay. metrics may be nil.
func NewRelay(db *gorm.DB, publisher Publisher, logger *logrus.Logger, m *metrics.Metrics, interval time.Duration, batchSize int) *Relay {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Relay{
		db:        db,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run polls until ctx is canceled
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.WithField("interval", r.interval).Info("Outbox relay started")
	for {
		select {
		case <-ticker.C:
			if _, err := r.ProcessPending(ctx); err != nil {
				r.logger.WithError(err).Error("Outbox relay pass failed")
			}
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return
		}
	}
}

// ProcessPending publishes one batch of unsent events and returns how many
// were delivered. A failed event stays pending and is retried on the next
// pass; delivery is at least once.
func (r *Relay) ProcessPending(ctx context.Context) (int, error) {
	var events []Event
	if err := r.db.WithContext(ctx).
		Where("sent_at IS NULL").
		Order("id ASC").
		Limit(r.batchSize).
		Find(&events).Error; err != nil {
		return 0, fmt.Errorf("failed to fetch pending events: %w", err)
	}

	sent, failed := 0, 0
	for i := range events {
		event := &events[i]
		err := r.publisher.Publish(ctx, Message{
			EventID:   event.EventID,
			EventType: event.EventType,
			Topic:     event.Topic,
			Key:       event.Key,
			Payload:   event.Payload,
		})
		if err != nil {
			failed++
			r.logger.WithFields(logrus.Fields{
				"event_id": event.EventID,
				"topic":    event.Topic,
			}).WithError(err).Warn("Failed to publish outbox event")
			r.recordFailure(ctx, event, err)
			continue
		}

		now := time.Now().UTC()
		if err := r.db.WithContext(ctx).Model(event).Updates(map[string]interface{}{
			"sent_at":  now,
			"attempts": gorm.Expr("attempts + 1"),
		}).Error; err != nil {
			r.logger.WithField("event_id", event.EventID).WithError(err).Error("Failed to mark outbox event as sent")
			continue
		}
		sent++
	}

	r.metrics.OutboxDelivered(sent, failed)
	return sent, nil
}

func (r *Relay) recordFailure(ctx context.Context, event *Event, cause error) {
	if err := r.db.WithContext(ctx).Model(event).Updates(map[string]interface{}{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": cause.Error(),
	}).Error; err != nil {
		r.logger.WithField("event_id", event.EventID).WithError(err).Error("Failed to record outbox failure")
	}
}
