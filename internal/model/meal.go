package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Meal records what a member ate on a date. One row per
// (mess, member, date); saving again overwrites the previous entry.
type Meal struct {
	ID           int64           `json:"id"`
	MessID       int64           `json:"mess_id"`
	MemberID     int64           `json:"member_id"`
	Date         time.Time       `json:"date"`
	HadBreakfast bool            `json:"had_breakfast"`
	HadLunch     bool            `json:"had_lunch"`
	HadDinner    bool            `json:"had_dinner"`
	ExtraMeals   decimal.Decimal `json:"extra_meals"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
