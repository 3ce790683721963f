// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"github.com/your-org/bagstore/internal/domain/catalog"
)

// Status represents the order status
type Status string

const (
	StatusNew      Status = "new"
	StatusSent     Status = "sent"
	StatusDone     Status = "done"
	StatusCanceled Status = "canceled"
)

var transitions = map[Status][]Status{
	StatusNew:  {StatusSent, StatusCanceled},
	StatusSent: {StatusDone, StatusCanceled},
}

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusSent, StatusDone, StatusCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in status s may move to next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFinal reports whether no further transitions are possible
func (s Status) IsFinal() bool {
	return len(transitions[s]) == 0
}

// Order is an immutable record of a committed purchase. Only Status changes
// after creation.
type Order struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderNumber string    `gorm:"uniqueIndex;size:50;default:null" json:"order_number"`
	CustomerID  uint      `gorm:"not null;index" json:"customer_id"`
	TotalPrice  int64     `gorm:"not null" json:"total_price"`
	Status      Status    `gorm:"not null;size:20;default:'new'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Items         []Item          `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
	StatusHistory []StatusHistory `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"status_history,omitempty"`
}

// Item is a snapshot of one cart line at commit time
type Item struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;index" json:"order_id"`
	BagID       uint      `gorm:"not null;index" json:"bag_id"`
	Quantity    int       `gorm:"not null;check:quantity >= 1" json:"quantity"`
	PriceAtTime int64     `gorm:"not null" json:"price_at_time"`
	CreatedAt   time.Time `json:"created_at"`

	// A bag referenced by an order cannot be deleted.
	Bag *catalog.Bag `gorm:"foreignKey:BagID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"bag,omitempty"`
}

// StatusHistory tracks order status changes
type StatusHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"not null;index" json:"order_id"`
	Status    Status    `gorm:"not null;size:20" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string         { return "orders" }
func (Item) TableName() string          { return "order_items" }
func (StatusHistory) TableName() string { return "order_status_history" }

// GenerateOrderNumber derives the human order number from the id
func (o *Order) GenerateOrderNumber() string {
	// Format: ORD-YYYYMMDD-XXXXX
	created := o.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return fmt.Sprintf("ORD-%s-%05d", created.UTC().Format("20060102"), o.ID)
}

// LineTotal returns quantity times the frozen unit price
func (i *Item) LineTotal() int64 {
	return int64(i.Quantity) * i.PriceAtTime
}

// ComputeTotal sums the line totals of the order's items
func (o *Order) ComputeTotal() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].LineTotal()
	}
	return total
}
