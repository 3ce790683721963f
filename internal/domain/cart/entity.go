// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/bagstore/internal/domain/catalog"
)

// Cart is a customer's mutable selection. There is at most one per customer.
type Cart struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"uniqueIndex;not null" json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// CartItem is one bag line in a cart. PriceAtTime is captured when the line is
// first created and is never re-captured by later adds.
type CartItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CartID      uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_bag" json:"cart_id"`
	BagID       uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_bag;index" json:"bag_id"`
	Quantity    int       `gorm:"not null;default:1;check:quantity >= 1" json:"quantity"`
	PriceAtTime int64     `gorm:"not null" json:"price_at_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Bag catalog.Bag `gorm:"foreignKey:BagID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"bag"`
}

// TableName overrides the table name
func (Cart) TableName() string { return "carts" }

// TableName overrides the table name
func (CartItem) TableName() string { return "cart_items" }

// LineTotal returns quantity times the frozen unit price
func (i *CartItem) LineTotal() int64 {
	return int64(i.Quantity) * i.PriceAtTime
}

// Total returns the sum of all line totals. It is recomputed on every call.
func (c *Cart) Total() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].LineTotal()
	}
	return total
}

// TotalQuantity returns the number of units across all lines
func (c *Cart) TotalQuantity() int {
	n := 0
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// View is the cart as returned to the presentation layer
type View struct {
	CartID        uint       `json:"cart_id"`
	Items         []CartItem `json:"items"`
	ItemCount     int        `json:"item_count"`
	TotalQuantity int        `json:"total_quantity"`
	Total         int64      `json:"total"`
}

// NewView builds a view from a cart with its items loaded
func NewView(c *Cart) *View {
	items := c.Items
	if items == nil {
		items = []CartItem{}
	}
	return &View{
		CartID:        c.ID,
		Items:         items,
		ItemCount:     len(items),
		TotalQuantity: c.TotalQuantity(),
		Total:         c.Total(),
	}
}
