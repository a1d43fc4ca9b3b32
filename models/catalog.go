package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TableStatus is the seating state of a dining table
type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

// Valid reports whether s is a known table status
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}

type Table struct {
	ID        string      `json:"id" gorm:"primaryKey;size:36"`
	Number    int         `json:"number" gorm:"not null"`
	Capacity  int         `json:"capacity"`
	Status    TableStatus `json:"status" gorm:"not null;default:'available'"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// DisplayName is the label copied onto orders at creation time
func (t Table) DisplayName() string {
	return fmt.Sprintf("Table %d", t.Number)
}

// ItemType is a menu category
type ItemType struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MenuItem struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	TypeID      string          `json:"type_id" gorm:"size:36;index"`
	TypeName    string          `json:"type_name,omitempty" gorm:"-"` // resolved on read
	Available   bool            `json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// UnknownTypeName is shown for items whose category no longer exists
const UnknownTypeName = "Unknown"
