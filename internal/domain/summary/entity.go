// internal/domain/summary/entity.go
package summary

import (
	"time"

	"github.com/your-org/bagstore/internal/domain/catalog"
)

// OrderSummary is a read-only snapshot of a cart taken before checkout. A
// customer may stage several; checkout discards all of them.
type OrderSummary struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index" json:"customer_id"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	Items []Item `gorm:"foreignKey:SummaryID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// Item copies one cart line: same bag, quantity and frozen price
type Item struct {
	ID          uint  `gorm:"primaryKey" json:"id"`
	SummaryID   uint  `gorm:"not null;index" json:"summary_id"`
	BagID       uint  `gorm:"not null;index" json:"bag_id"`
	Quantity    int   `gorm:"not null;check:quantity >= 1" json:"quantity"`
	PriceAtTime int64 `gorm:"not null" json:"price_at_time"`

	Bag *catalog.Bag `gorm:"foreignKey:BagID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"bag,omitempty"`
}

// TableName overrides
func (OrderSummary) TableName() string { return "order_summaries" }
func (Item) TableName() string         { return "order_summary_items" }

// LineTotal returns quantity times the frozen unit price
func (i *Item) LineTotal() int64 {
	return int64(i.Quantity) * i.PriceAtTime
}
