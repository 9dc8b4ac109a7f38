package dashboard

import (
	"errors"

	"messbook/internal/store"
)

// ErrMessNotFound is returned when the requested mess does not exist.
var ErrMessNotFound = errors.New("mess not found")

// Service loads a month's records and runs the aggregation. It holds
// no state beyond store handles and is safe for concurrent use.
type Service struct {
	messes      *store.MessStore
	members     *store.MemberStore
	meals       *store.MealStore
	expenses    *store.ExpenseStore
	deposits    *store.DepositStore
	assignments *store.AssignmentStore
}

func NewService(
	messes *store.MessStore,
	members *store.MemberStore,
	meals *store.MealStore,
	expenses *store.ExpenseStore,
	deposits *store.DepositStore,
	assignments *store.AssignmentStore,
) *Service {
	return &Service{
		messes:      messes,
		members:     members,
		meals:       meals,
		expenses:    expenses,
		deposits:    deposits,
		assignments: assignments,
	}
}

// ForMonth computes the dashboard for one mess and calendar month.
func (s *Service) ForMonth(messID int64, year, month int) (*Result, error) {
	start, end, err := MonthRange(year, month)
	if err != nil {
		return nil, err
	}

	mess, err := s.messes.GetByID(messID)
	if err != nil {
		return nil, err
	}
	if mess == nil {
		return nil, ErrMessNotFound
	}

	members, err := s.members.ListActive(messID)
	if err != nil {
		return nil, err
	}
	meals, err := s.meals.ListRangeActive(messID, start, end)
	if err != nil {
		return nil, err
	}
	expenses, err := s.expenses.ListRange(messID, start, end)
	if err != nil {
		return nil, err
	}
	deposits, err := s.deposits.ListRange(messID, start, end)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListForMess(messID)
	if err != nil {
		return nil, err
	}

	result := Compute(Input{
		Mess:        *mess,
		Year:        year,
		Month:       month,
		Members:     members,
		Meals:       meals,
		Expenses:    expenses,
		Deposits:    deposits,
		Assignments: assignments,
	})
	return &result, nil
}
