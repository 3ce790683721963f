// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/your-org/bagstore/internal/config"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/cart"
	"github.com/your-org/bagstore/internal/domain/customer"
	"github.com/your-org/bagstore/internal/domain/inventory"
	"github.com/your-org/bagstore/internal/domain/order"
	"github.com/your-org/bagstore/internal/domain/outbox"
	"github.com/your-org/bagstore/internal/domain/summary"
	"github.com/your-org/bagstore/internal/pkg/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CacheInvalidator drops cached catalog data after stock changes
type CacheInvalidator interface {
	InvalidateCache(ctx context.Context) error
}

// Service turns a cart into an order
type Service struct {
	db      *gorm.DB
	ledger  *inventory.Ledger
	cache   CacheInvalidator
	config  *config.Config
	logger  *logrus.Logger
	metrics *metrics.Metrics
}

// NewService creates a new checkout service. cache and m may be nil.
func NewService(db *gorm.DB, ledger *inventory.Ledger, cache CacheInvalidator, cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics) *Service {
	return &Service{
		db:      db,
		ledger:  ledger,
		cache:   cache,
		config:  cfg,
		logger:  logger,
		metrics: m,
	}
}

// CommitRequest carries optional shipping details to store with the order
type CommitRequest struct {
	Shipping *customer.ShippingDetails `json:"shipping,omitempty"`
}

// CommitOrder converts the customer's cart into an order
func (s *Service) CommitOrder(ctx context.Context, customerID uint) (*order.Order, error) {
	return s.CommitOrderWithShipping(ctx, customerID, nil)
}

// CommitOrderWithShipping converts the customer's cart into an order in one
// transaction: stock is locked and verified, the order and its items are
// written, stock is decremented, the cart and staged summaries are cleared and
// an order.created event is queued. Any failure leaves no trace.
func (s *Service) CommitOrderWithShipping(ctx context.Context, customerID uint, shipping *customer.ShippingDetails) (*order.Order, error) {
	const op = "checkout.commit_order"

	var committed order.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := cart.LockCart(tx, customerID)
		if err != nil {
			return err
		}
		if c == nil || c.IsEmpty() {
			return apperr.New(op, apperr.ErrEmptyCart, "cart is empty")
		}

		bagIDs := make([]uint, 0, len(c.Items))
		for _, item := range c.Items {
			bagIDs = append(bagIDs, item.BagID)
		}
		locked, err := s.ledger.Lock(tx, bagIDs)
		if err != nil {
			return err
		}

		// Verify every line before writing anything.
		for _, item := range c.Items {
			bag := locked[item.BagID]
			if !s.ledger.ReserveCheck(bag, item.Quantity) {
				return apperr.OutOfStock(bag.ID, item.Quantity, bag.Amount)
			}
		}

		committed = order.Order{
			CustomerID: customerID,
			TotalPrice: c.Total(),
			Status:     order.StatusNew,
		}
		if err := tx.Omit(clause.Associations).Create(&committed).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		committed.OrderNumber = committed.GenerateOrderNumber()
		if err := tx.Model(&committed).Update("order_number", committed.OrderNumber).Error; err != nil {
			return fmt.Errorf("failed to set order number: %w", err)
		}

		items := make([]order.Item, 0, len(c.Items))
		for _, line := range c.Items {
			items = append(items, order.Item{
				OrderID:     committed.ID,
				BagID:       line.BagID,
				Quantity:    line.Quantity,
				PriceAtTime: line.PriceAtTime,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}
		committed.Items = items

		history := order.StatusHistory{OrderID: committed.ID, Status: order.StatusNew, Comment: "Order placed"}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to record status history: %w", err)
		}
		committed.StatusHistory = []order.StatusHistory{history}

		ref := inventory.Reference{Type: "order", ID: committed.ID}
		for _, line := range c.Items {
			if err := s.ledger.Decrement(tx, locked[line.BagID], line.Quantity, ref); err != nil {
				return err
			}
		}

		if err := cart.Clear(tx, c); err != nil {
			return err
		}
		if err := summary.DeleteForCustomer(tx, customerID); err != nil {
			return err
		}
		if err := customer.ApplyShipping(tx, customerID, shipping); err != nil {
			return err
		}

		if _, err := outbox.Enqueue(tx, outbox.EventOrderCreated, s.config.Kafka.OrderEventsTopic,
			strconv.FormatUint(uint64(committed.ID), 10), orderCreatedPayload(&committed)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		s.metrics.Checkout(outcome(err))
		if apperr.HTTPStatus(err) >= 500 {
			s.logger.WithField("customer_id", customerID).WithError(err).Error("Checkout failed")
		}
		return nil, err
	}

	s.metrics.Checkout("committed")
	s.metrics.OrderCommitted(committed.TotalPrice, unitCount(committed.Items))
	s.logger.WithFields(logrus.Fields{
		"order_id":    committed.ID,
		"order":       committed.OrderNumber,
		"customer_id": customerID,
		"total":       committed.TotalPrice,
	}).Info("Order committed")

	if s.cache != nil {
		if err := s.cache.InvalidateCache(ctx); err != nil {
			s.logger.WithError(err).Warn("Failed to invalidate catalog cache")
		}
	}
	return &committed, nil
}

func orderCreatedPayload(o *order.Order) outbox.OrderCreatedPayload {
	items := make([]outbox.OrderItemPayload, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, outbox.OrderItemPayload{
			BagID:       item.BagID,
			Quantity:    item.Quantity,
			PriceAtTime: item.PriceAtTime,
		})
	}
	return outbox.OrderCreatedPayload{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		TotalPrice:  o.TotalPrice,
		Status:      string(o.Status),
		Items:       items,
		CreatedAt:   o.CreatedAt,
	}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, apperr.ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, apperr.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, apperr.ErrLockTimeout):
		return "lock_timeout"
	default:
		return "error"
	}
}

func unitCount(items []order.Item) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
