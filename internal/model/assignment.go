package model

import "time"

// Assignment type tags, derived from the period selector used at creation.
const (
	AssignmentTypeWeek   = "week"
	AssignmentTypeDays   = "days"
	AssignmentTypeCustom = "custom"
)

// Assignment designates a user as meal-entry manager for a contiguous
// date range (inclusive both ends). Invariant: EndDate >= StartDate.
type Assignment struct {
	ID              int64     `json:"id"`
	MessID          int64     `json:"mess_id"`
	ManagerUserID   int64     `json:"manager_user_id"`
	ManagerMemberID *int64    `json:"manager_member_id"`
	ManagerName     string    `json:"manager_name"`
	AssignmentType  string    `json:"assignment_type"`
	PeriodChoice    string    `json:"period_choice"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	CreatedBy       *int64    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// TotalDays returns the number of days covered, counting both endpoints.
func (a *Assignment) TotalDays() int {
	return int(a.EndDate.Sub(a.StartDate).Hours()/24) + 1
}
