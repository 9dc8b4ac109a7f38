package store

import (
	"database/sql"
	"fmt"

	"messbook/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	var userID sql.NullInt64
	err := scanner.Scan(
		&m.ID, &m.MessID, &userID, &m.Name, &m.Phone,
		&m.IsActive, &m.DefaultMealPattern, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		m.UserID = &userID.Int64
	}
	return &m, nil
}

const memberCols = `id, mess_id, user_id, name, phone, is_active, default_meal_pattern, created_at, updated_at`

func (s *MemberStore) Create(messID int64, userID *int64, name, phone, pattern string, isActive bool) (*model.Member, error) {
	result, err := s.db.Exec(
		`INSERT INTO members (mess_id, user_id, name, phone, is_active, default_meal_pattern) VALUES (?, ?, ?, ?, ?, ?)`,
		messID, userID, name, phone, isActive, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.Get(messID, id)
}

// Get returns the member only if it belongs to the given mess.
func (s *MemberStore) Get(messID, id int64) (*model.Member, error) {
	row := s.db.QueryRow(
		`SELECT `+memberCols+` FROM members WHERE id = ? AND mess_id = ?`,
		id, messID,
	)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) List(messID int64) ([]model.Member, error) {
	return s.list(`SELECT `+memberCols+` FROM members WHERE mess_id = ? ORDER BY name ASC`, messID)
}

// ListActive returns active members only; inactive members are excluded
// from meal sheets and from all dashboard rows.
func (s *MemberStore) ListActive(messID int64) ([]model.Member, error) {
	return s.list(`SELECT `+memberCols+` FROM members WHERE mess_id = ? AND is_active = 1 ORDER BY name ASC`, messID)
}

func (s *MemberStore) list(query string, args ...any) ([]model.Member, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) Update(messID, id int64, userID *int64, name, phone, pattern string, isActive bool) (*model.Member, error) {
	_, err := s.db.Exec(
		`UPDATE members SET user_id = ?, name = ?, phone = ?, is_active = ?, default_meal_pattern = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND mess_id = ?`,
		userID, name, phone, isActive, pattern, id, messID,
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.Get(messID, id)
}

func (s *MemberStore) NameExists(messID int64, name string, excludeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM members WHERE mess_id = ? AND name = ? AND id != ?`,
		messID, name, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check member name: %w", err)
	}
	return count > 0, nil
}

// GetByUser returns the member row linked to a user account within the
// mess, or nil when no member is linked to that user.
func (s *MemberStore) GetByUser(messID, userID int64) (*model.Member, error) {
	row := s.db.QueryRow(
		`SELECT `+memberCols+` FROM members WHERE mess_id = ? AND user_id = ?`,
		messID, userID,
	)
	m, err := scanMember(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get member by user: %w", err)
	}
	return m, nil
}
