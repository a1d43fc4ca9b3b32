package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentOnline PaymentMethod = "online"
)

// Valid reports whether m is an accepted payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentOnline:
		return true
	}
	return false
}

type DiscountType string

const (
	DiscountNone       DiscountType = ""
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
)

// Bill aggregates one or more orders into a payable amount. Orders are kept
// as the snapshots they were at billing time.
type Bill struct {
	ID              string                     `json:"id" gorm:"primaryKey;size:36"`
	Orders          datatypes.JSONSlice[Order] `json:"orders"`
	CustomerName    string                     `json:"customer_name"`
	CustomerPhone   string                     `json:"customer_phone"`
	Subtotal        decimal.Decimal            `json:"subtotal" gorm:"type:decimal(12,2);not null"`
	DiscountType    DiscountType               `json:"discount_type"`
	DiscountValue   decimal.Decimal            `json:"discount_value" gorm:"type:decimal(12,2);not null"`
	DiscountPercent decimal.Decimal            `json:"discount_percent" gorm:"type:decimal(5,2);not null"`
	DiscountAmount  decimal.Decimal            `json:"discount_amount" gorm:"type:decimal(12,2);not null"`
	Tax             decimal.Decimal            `json:"tax" gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal            `json:"total" gorm:"type:decimal(12,2);not null"`
	PaymentStatus   PaymentStatus              `json:"payment_status" gorm:"not null;default:'pending';index"`
	PaymentMethod   PaymentMethod              `json:"payment_method,omitempty"`
	CreatedAt       time.Time                  `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// OrderIDs lists the ids of the embedded orders in billing order
func (b Bill) OrderIDs() []string {
	ids := make([]string, 0, len(b.Orders))
	for _, o := range b.Orders {
		ids = append(ids, o.ID)
	}
	return ids
}

// Settled reports whether the bill is closed for discounts and merges
func (b Bill) Settled() bool {
	return b.PaymentStatus == PaymentPaid
}
