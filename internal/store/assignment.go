package store

import (
	"database/sql"
	"fmt"
	"time"

	"messbook/internal/model"
)

type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.Assignment, error) {
	var a model.Assignment
	var startStr, endStr string
	var memberID, createdBy sql.NullInt64
	err := scanner.Scan(
		&a.ID, &a.MessID, &a.ManagerUserID, &memberID, &a.ManagerName,
		&a.AssignmentType, &a.PeriodChoice, &startStr, &endStr, &createdBy, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.StartDate, err = parseStoredDate(startStr); err != nil {
		return nil, err
	}
	if a.EndDate, err = parseStoredDate(endStr); err != nil {
		return nil, err
	}
	if memberID.Valid {
		a.ManagerMemberID = &memberID.Int64
	}
	if createdBy.Valid {
		a.CreatedBy = &createdBy.Int64
	}
	return &a, nil
}

// Display name prefers the linked member's name over the raw username.
const assignmentSelect = `
	SELECT a.id, a.mess_id, a.manager_user_id, a.manager_member_id,
	       COALESCE(mb.name, u.username) AS manager_name,
	       a.assignment_type, a.period_choice, a.start_date, a.end_date,
	       a.created_by, a.created_at
	FROM manager_assignments a
	JOIN users u ON a.manager_user_id = u.id
	LEFT JOIN members mb ON a.manager_member_id = mb.id`

func (s *AssignmentStore) Create(messID, managerUserID int64, managerMemberID *int64, assignmentType, periodChoice string, start, end time.Time, createdBy *int64) (*model.Assignment, error) {
	result, err := s.db.Exec(
		`INSERT INTO manager_assignments
		 (mess_id, manager_user_id, manager_member_id, assignment_type, period_choice, start_date, end_date, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		messID, managerUserID, managerMemberID, assignmentType, periodChoice, fmtDate(start), fmtDate(end), createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert assignment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(assignmentSelect+` WHERE a.id = ?`, id)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// ListForMess returns every assignment of the mess, latest start first.
func (s *AssignmentStore) ListForMess(messID int64) ([]model.Assignment, error) {
	rows, err := s.db.Query(assignmentSelect+` WHERE a.mess_id = ? ORDER BY a.start_date DESC, a.id ASC`, messID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// IsManagerForDate reports whether the user holds an assignment whose
// [start_date, end_date] interval contains the date, inclusive both
// ends. Gate for meal-entry writes by non-admins.
func (s *AssignmentStore) IsManagerForDate(messID, userID int64, date time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(
			SELECT 1 FROM manager_assignments
			WHERE mess_id = ? AND manager_user_id = ? AND start_date <= ? AND end_date >= ?
		)`,
		messID, userID, fmtDate(date), fmtDate(date),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check manager for date: %w", err)
	}
	return exists, nil
}

// GetForDate returns the user's assignment covering the date with the
// latest start, or nil when none covers it.
func (s *AssignmentStore) GetForDate(messID, userID int64, date time.Time) (*model.Assignment, error) {
	row := s.db.QueryRow(
		assignmentSelect+` WHERE a.mess_id = ? AND a.manager_user_id = ? AND a.start_date <= ? AND a.end_date >= ?
		 ORDER BY a.start_date DESC LIMIT 1`,
		messID, userID, fmtDate(date), fmtDate(date),
	)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment for date: %w", err)
	}
	return a, nil
}
