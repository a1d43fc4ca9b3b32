package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategories is the fixed category catalog offered to staff
var ExpenseCategories = []string{
	"Ingredients",
	"Utilities",
	"Rent",
	"Salaries",
	"Equipment",
	"Maintenance",
	"Marketing",
	"Miscellaneous",
}

// IsExpenseCategory reports whether c belongs to ExpenseCategories
func IsExpenseCategory(c string) bool {
	for _, known := range ExpenseCategories {
		if known == c {
			return true
		}
	}
	return false
}

type Expense struct {
	ID          string          `json:"id" gorm:"primaryKey;size:36"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Category    string          `json:"category" gorm:"not null"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date" gorm:"index;not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
