package model

import (
	"strings"
	"time"
)

// Default meal patterns used to pre-fill a day's meal sheet when no
// record exists yet for a member.
const (
	PatternNone = "NONE"
	PatternB    = "B"
	PatternL    = "L"
	PatternD    = "D"
	PatternBL   = "BL"
	PatternLD   = "LD"
	PatternBD   = "BD"
	PatternBLD  = "BLD"
)

// ValidMealPattern reports whether p is one of the recognized patterns.
func ValidMealPattern(p string) bool {
	switch p {
	case PatternNone, PatternB, PatternL, PatternD, PatternBL, PatternLD, PatternBD, PatternBLD:
		return true
	}
	return false
}

// Member is a boarder tracked within a mess, optionally linked to a user
// account. Name is unique per mess.
type Member struct {
	ID                 int64     `json:"id"`
	MessID             int64     `json:"mess_id"`
	UserID             *int64    `json:"user_id"`
	Name               string    `json:"name"`
	Phone              string    `json:"phone"`
	IsActive           bool      `json:"is_active"`
	DefaultMealPattern string    `json:"default_meal_pattern"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PatternFlags expands the member's default meal pattern into per-meal
// booleans. Used only to pre-fill an entry form; nothing is counted
// until a meal record is saved.
func (m *Member) PatternFlags() (breakfast, lunch, dinner bool) {
	p := m.DefaultMealPattern
	if p == "" || p == PatternNone {
		return false, false, false
	}
	return strings.Contains(p, "B"), strings.Contains(p, "L"), strings.Contains(p, "D")
}
