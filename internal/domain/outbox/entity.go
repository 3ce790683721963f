// internal/domain/outbox/entity.go
package outbox

import (
	"time"
)

// Event types
const (
	EventOrderCreated = "order.created"
)

// Event is a message written in the same transaction as the state change it
// describes and delivered to the broker afterwards.
type Event struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	EventID   string     `gorm:"uniqueIndex;not null;size:36" json:"event_id"`
	EventType string     `gorm:"not null;size:50" json:"event_type"`
	Topic     string     `gorm:"not null;size:100" json:"topic"`
	Key       string     `gorm:"size:100" json:"key"`
	Payload   []byte     `gorm:"not null" json:"payload"`
	Attempts  int        `gorm:"not null;default:0" json:"attempts"`
	LastError string     `gorm:"type:text" json:"last_error"`
	CreatedAt time.Time  `json:"created_at"`
	SentAt    *time.Time `gorm:"index" json:"sent_at"`
}

// TableName overrides the table name
func (Event) TableName() string {
	return "outbox_events"
}

// OrderItemPayload is one line of an order.created event
type OrderItemPayload struct {
	BagID       uint  `json:"bag_id"`
	Quantity    int   `json:"quantity"`
	PriceAtTime int64 `json:"price_at_time"`
}

// OrderCreatedPayload is the body of an order.created event
type OrderCreatedPayload struct {
	OrderID     uint               `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	CustomerID  uint               `json:"customer_id"`
	TotalPrice  int64              `json:"total_price"`
	Status      string             `json:"status"`
	Items       []OrderItemPayload `json:"items"`
	CreatedAt   time.Time          `json:"created_at"`
}
