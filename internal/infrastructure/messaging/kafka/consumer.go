// internal/infrastructure/messaging/kafka/consumer.go
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/order"
	"github.com/your-org/bagstore/internal/pkg/metrics"
)

// FulfillmentEvent is published by the warehouse when an order moves
type FulfillmentEvent struct {
	OrderID uint   `json:"order_id"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

// StatusUpdater applies fulfillment status changes
type StatusUpdater interface {
	UpdateStatus(ctx context.Context, orderID uint, status order.Status, comment string) (*order.Order, error)
}

// MessageReader is the part of *kafka.Reader the consumer needs
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// errPoison marks messages that can never be applied and are skipped
var errPoison = errors.New("unprocessable fulfillment event")

// FulfillmentConsumer moves orders through sent, done and canceled
type FulfillmentConsumer struct {
	reader  MessageReader
	orders  StatusUpdater
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// NewFulfillmentConsumer creates a consumer. m may be nil.
func NewFulfillmentConsumer(reader MessageReader, orders StatusUpdater, logger *logrus.Logger, m *metrics.Metrics) *FulfillmentConsumer {
	return &FulfillmentConsumer{
		reader:  reader,
		orders:  orders,
		logger:  logger,
		metrics: m,
	}
}

// Run consumes until ctx is canceled. Applied and poison messages are
// committed; transient failures are left uncommitted and redelivered.
func (c *FulfillmentConsumer) Run(ctx context.Context) {
	c.logger.Info("Fulfillment consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("Fulfillment consumer stopped")
				return
			}
			c.logger.WithError(err).Error("Failed to fetch fulfillment message")
			continue
		}

		if err := c.HandleMessage(ctx, msg); err != nil && !errors.Is(err, errPoison) {
			c.logger.WithFields(logrus.Fields{
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).WithError(err).Error("Failed to apply fulfillment event, will retry")
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.WithError(err).Error("Failed to commit fulfillment message")
		}
	}
}

// HandleMessage applies one fulfillment event. It wraps errPoison for events
// that are malformed or describe an impossible transition.
func (c *FulfillmentConsumer) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var event FulfillmentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.metrics.Fulfillment("malformed")
		c.logger.WithField("offset", msg.Offset).WithError(err).Warn("Skipping malformed fulfillment event")
		return fmt.Errorf("%w: %v", errPoison, err)
	}

	status := order.Status(event.Status)
	if event.OrderID == 0 || !status.Valid() {
		c.metrics.Fulfillment("malformed")
		c.logger.WithFields(logrus.Fields{
			"order_id": event.OrderID,
			"status":   event.Status,
		}).Warn("Skipping fulfillment event with missing order or unknown status")
		return fmt.Errorf("%w: order %d status %q", errPoison, event.OrderID, event.Status)
	}

	updated, err := c.orders.UpdateStatus(ctx, event.OrderID, status, event.Comment)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidTransition) {
			c.metrics.Fulfillment("rejected")
			c.logger.WithField("order_id", event.OrderID).WithError(err).Warn("Rejected fulfillment event")
			return fmt.Errorf("%w: %v", errPoison, err)
		}
		c.metrics.Fulfillment("error")
		return err
	}

	c.metrics.Fulfillment("applied")
	c.logger.WithFields(logrus.Fields{
		"order_id": updated.ID,
		"status":   updated.Status,
	}).Info("Order status updated")
	return nil
}

// Close closes the reader
func (c *FulfillmentConsumer) Close() error {
	return c.reader.Close()
}
