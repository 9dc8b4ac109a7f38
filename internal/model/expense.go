package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense categories (bazar purchases).
const (
	CategoryRice  = "rice"
	CategoryMeat  = "meat"
	CategoryVeg   = "veg"
	CategoryFish  = "fish"
	CategoryOther = "other"
)

// ValidExpenseCategory reports whether c is a recognized category.
func ValidExpenseCategory(c string) bool {
	switch c {
	case CategoryRice, CategoryMeat, CategoryVeg, CategoryFish, CategoryOther:
		return true
	}
	return false
}

// Expense is a mess-level spend on a date.
type Expense struct {
	ID             int64           `json:"id"`
	MessID         int64           `json:"mess_id"`
	Date           time.Time       `json:"date"`
	Amount         decimal.Decimal `json:"amount"`
	Category       string          `json:"category"`
	PaidByMemberID *int64          `json:"paid_by_member_id"`
	Note           string          `json:"note"`
	CreatedAt      time.Time       `json:"created_at"`
}
