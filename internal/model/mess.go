package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Membership roles within a mess.
const (
	RoleSuperAdmin = "super_admin"
	RoleManager    = "manager"
	RoleMember     = "member"
)

// Mess is the cost-sharing household unit. Breakfast counts toward meal
// units only when IncludeBreakfast is set, weighted by BreakfastWeight
// (lunch and dinner are always one unit each).
type Mess struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	OwnerUserID      int64           `json:"owner_user_id"`
	Currency         string          `json:"currency"`
	IncludeBreakfast bool            `json:"include_breakfast"`
	BreakfastWeight  decimal.Decimal `json:"breakfast_weight"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// MessUser associates a user with a mess and a role. One row per
// (mess, user) pair.
type MessUser struct {
	ID        int64     `json:"id"`
	MessID    int64     `json:"mess_id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
