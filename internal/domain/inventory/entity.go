// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// MovementReason represents the reason for a stock movement
type MovementReason string

// ReasonSale marks a decrement made by checkout
const ReasonSale MovementReason = "sale"

// StockMovement is an audit record of one change to a bag's amount
type StockMovement struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	BagID            uint           `gorm:"not null;index" json:"bag_id"`
	Reason           MovementReason `gorm:"not null;size:20" json:"reason"`
	Quantity         int            `gorm:"not null" json:"quantity"`
	PreviousQuantity int            `gorm:"not null" json:"previous_quantity"`
	NewQuantity      int            `gorm:"not null" json:"new_quantity"`
	ReferenceType    string         `gorm:"size:50" json:"reference_type"` // "order"
	ReferenceID      uint           `json:"reference_id"`
	CreatedAt        time.Time      `json:"created_at"`
}

// TableName overrides the table name
func (StockMovement) TableName() string {
	return "stock_movements"
}

// Reference ties a movement to the entity that caused it
type Reference struct {
	Type string
	ID   uint
}
