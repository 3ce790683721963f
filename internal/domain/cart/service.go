// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/your-org/bagstore/internal/config"
	"github.com/your-org/bagstore/internal/domain/apperr"
	"github.com/your-org/bagstore/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	BagID    uint `json:"bag_id" binding:"required"`
	Quantity int  `json:"quantity"`
}

// AddItem adds quantity units of a bag to the customer's cart. Repeated adds
// of the same bag increment one line; the price captured on the first add is
// kept.
func (s *Service) AddItem(ctx context.Context, customerID, bagID uint, quantity int) (*View, error) {
	const op = "cart.add_item"

	if max := s.config.Store.MaxQuantityPerAdd; quantity < 1 || quantity > max {
		return nil, apperr.InvalidQuantity(op, quantity, max)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bag catalog.Bag
		if err := tx.First(&bag, bagID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound(op, "bag", bagID)
			}
			return fmt.Errorf("failed to load bag: %w", err)
		}

		// Locking the cart row serializes concurrent adds by the same customer.
		c, err := getOrCreateCart(tx, customerID, true)
		if err != nil {
			return err
		}

		var existing CartItem
		err = tx.Where("cart_id = ? AND bag_id = ?", c.ID, bagID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if bag.Amount < quantity {
				return apperr.OutOfStock(bagID, quantity, bag.Amount)
			}
			item := CartItem{
				CartID:      c.ID,
				BagID:       bagID,
				Quantity:    quantity,
				PriceAtTime: bag.Price,
			}
			if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create cart item: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to load cart item: %w", err)
		default:
			if bag.Amount < existing.Quantity+quantity {
				return apperr.OutOfStock(bagID, quantity, bag.Amount-existing.Quantity)
			}
			if err := tx.Model(&existing).
				Update("quantity", gorm.Expr("quantity + ?", quantity)).Error; err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.View(ctx, customerID)
}

// RemoveItem deletes the bag's line from the customer's cart
func (s *Service) RemoveItem(ctx context.Context, customerID, bagID uint) (*View, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := getOrCreateCart(tx, customerID, true)
		if err != nil {
			return err
		}
		result := tx.Where("cart_id = ? AND bag_id = ?", c.ID, bagID).Delete(&CartItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove cart item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("cart.remove_item", "cart item for bag", bagID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.View(ctx, customerID)
}

// View returns the customer's cart with items and a freshly computed total
func (s *Service) View(ctx context.Context, customerID uint) (*View, error) {
	c, err := getOrCreateCart(s.db.WithContext(ctx), customerID, false)
	if err != nil {
		return nil, err
	}
	if err := LoadItems(s.db.WithContext(ctx), c, true); err != nil {
		return nil, err
	}
	return NewView(c), nil
}

// LockCart returns the customer's cart with its items under a row lock on
// the cart, or nil when the customer never created one. Checkout and summary
// promotion use it so the lines they read cannot change before commit;
// AddItem and RemoveItem wait on the same lock.
func LockCart(tx *gorm.DB, customerID uint) (*Cart, error) {
	var c Cart
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("customer_id = ?", customerID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if err := LoadItems(tx, &c, false); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadItems fills c.Items in insertion order
func LoadItems(tx *gorm.DB, c *Cart, withBags bool) error {
	q := tx.Where("cart_id = ?", c.ID).Order("id ASC")
	if withBags {
		q = q.Preload("Bag")
	}
	var items []CartItem
	if err := q.Find(&items).Error; err != nil {
		return fmt.Errorf("failed to load cart items: %w", err)
	}
	c.Items = items
	return nil
}

// Clear deletes exactly the lines loaded into c. It fails with ErrConflict
// when any of them is already gone, so a cart is never converted twice.
func Clear(tx *gorm.DB, c *Cart) error {
	if len(c.Items) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ID)
	}

	result := tx.Where("cart_id = ? AND id IN ?", c.ID, ids).Delete(&CartItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to clear cart: %w", result.Error)
	}
	if result.RowsAffected != int64(len(ids)) {
		return apperr.New("cart.clear", apperr.ErrConflict,
			"cart %d changed during checkout", c.ID)
	}
	return nil
}

// getOrCreateCart relies on the unique customer_id index, so two concurrent
// first adds end up with the same cart.
func getOrCreateCart(tx *gorm.DB, customerID uint, lock bool) (*Cart, error) {
	c := Cart{CustomerID: customerID}
	if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}},
		DoNothing: true,
	}).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var existing Cart
	if err := q.Where("customer_id = ?", customerID).First(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &existing, nil
}
