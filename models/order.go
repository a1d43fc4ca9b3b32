package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the kitchen state of a table order
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID        string               `json:"id" gorm:"primaryKey;size:36"`
	TableID   string               `json:"table_id" gorm:"size:36;index;not null"`
	TableName string               `json:"table_name"` // snapshot at creation
	Status    OrderStatus          `json:"status" gorm:"not null;default:'pending';index"`
	Items     []OrderLine          `json:"items" gorm:"foreignKey:OrderID"`
	History   []OrderStatusHistory `json:"history,omitempty" gorm:"foreignKey:OrderID"` // loaded by single-order reads
	Total     decimal.Decimal      `json:"total" gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time            `json:"created_at" gorm:"index"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// OrderLine is one priced menu selection. Name and price are copied from the
// catalog when the order is created and never re-read.
type OrderLine struct {
	ID        string          `json:"id" gorm:"primaryKey;size:36"`
	OrderID   string          `json:"order_id" gorm:"size:36;index;not null"`
	ItemID    string          `json:"item_id" gorm:"size:36;not null"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
}

// Subtotal is unit price times quantity
func (l OrderLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// OrderStatusHistory records one status change, including the initial
// pending status set when the order is placed
type OrderStatusHistory struct {
	ID         string      `json:"id" gorm:"primaryKey;size:36"`
	OrderID    string      `json:"order_id" gorm:"size:36;index;not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  string      `json:"changed_by" gorm:"size:36"` // staff user id, empty for system changes
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at" gorm:"index"`
}

// LinesTotal sums the line subtotals
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
