// internal/domain/summary/service.go
package summary

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/cart"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service stages order summaries
type Service struct {
	db *gorm.DB
}

// NewService creates a new summary service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Promote snapshots the customer's cart into a new summary. Neither the cart
// nor stock is touched.
func (s *Service) Promote(ctx context.Context, customerID uint) (*OrderSummary, error) {
	var created OrderSummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := cart.LockCart(tx, customerID)
		if err != nil {
			return err
		}
		if c == nil || c.IsEmpty() {
			return apperr.New("summary.promote", apperr.ErrEmptyCart, "cart is empty")
		}

		created = OrderSummary{
			CustomerID: customerID,
			TotalPrice: c.Total(),
		}
		if err := tx.Omit(clause.Associations).Create(&created).Error; err != nil {
			return fmt.Errorf("failed to create order summary: %w", err)
		}

		items := make([]Item, 0, len(c.Items))
		for _, line := range c.Items {
			items = append(items, Item{
				SummaryID:   created.ID,
				BagID:       line.BagID,
				Quantity:    line.Quantity,
				PriceAtTime: line.PriceAtTime,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order summary items: %w", err)
		}
		created.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Latest returns the customer's most recent summary
func (s *Service) Latest(ctx context.Context, customerID uint) (*OrderSummary, error) {
	var latest OrderSummary
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Bag").
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		First(&latest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.New("summary.latest", apperr.ErrNotFound, "no summary found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order summary: %w", err)
	}
	return &latest, nil
}

// DeleteForCustomer removes every staged summary of the customer. Checkout
// calls it inside its transaction.
func DeleteForCustomer(tx *gorm.DB, customerID uint) error {
	ids := tx.Model(&OrderSummary{}).Select("id").Where("customer_id = ?", customerID)
	if err := tx.Where("summary_id IN (?)", ids).Delete(&Item{}).Error; err != nil {
		return fmt.Errorf("failed to delete order summary items: %w", err)
	}
	if err := tx.Where("customer_id = ?", customerID).Delete(&OrderSummary{}).Error; err != nil {
		return fmt.Errorf("failed to delete order summaries: %w", err)
	}
	return nil
}
