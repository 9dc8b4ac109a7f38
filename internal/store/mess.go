package store

import (
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"messbook/internal/model"
)

type MessStore struct {
	db *sql.DB
}

func NewMessStore(db *sql.DB) *MessStore {
	return &MessStore{db: db}
}

func scanMess(scanner interface{ Scan(...any) error }) (*model.Mess, error) {
	var m model.Mess
	err := scanner.Scan(
		&m.ID, &m.Name, &m.OwnerUserID, &m.Currency,
		&m.IncludeBreakfast, &m.BreakfastWeight, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMessUser(scanner interface{ Scan(...any) error }) (*model.MessUser, error) {
	var mu model.MessUser
	err := scanner.Scan(&mu.ID, &mu.MessID, &mu.UserID, &mu.Role, &mu.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &mu, nil
}

const messCols = `id, name, owner_user_id, currency, include_breakfast, breakfast_weight, created_at, updated_at`
const messUserCols = `id, mess_id, user_id, role, created_at`

func (s *MessStore) GetByID(id int64) (*model.Mess, error) {
	row := s.db.QueryRow(`SELECT `+messCols+` FROM messes WHERE id = ?`, id)
	m, err := scanMess(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mess: %w", err)
	}
	return m, nil
}

// GetForUser returns the mess of the user's earliest membership, or nil
// when the user belongs to no mess.
func (s *MessStore) GetForUser(userID int64) (*model.Mess, error) {
	row := s.db.QueryRow(
		`SELECT m.id, m.name, m.owner_user_id, m.currency, m.include_breakfast, m.breakfast_weight, m.created_at, m.updated_at
		 FROM messes m
		 JOIN mess_users mu ON m.id = mu.mess_id
		 WHERE mu.user_id = ?
		 ORDER BY mu.id ASC
		 LIMIT 1`,
		userID,
	)
	m, err := scanMess(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mess for user: %w", err)
	}
	return m, nil
}

// UpdateSettings mutates the mess accounting settings. The breakfast
// weight only affects future dashboard computations; stored meal
// records are untouched.
func (s *MessStore) UpdateSettings(id int64, currency string, includeBreakfast bool, breakfastWeight decimal.Decimal) (*model.Mess, error) {
	_, err := s.db.Exec(
		`UPDATE messes SET currency = ?, include_breakfast = ?, breakfast_weight = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		currency, includeBreakfast, breakfastWeight, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update mess settings: %w", err)
	}
	return s.GetByID(id)
}

func (s *MessStore) AddUser(messID, userID int64, role string) (*model.MessUser, error) {
	result, err := s.db.Exec(
		`INSERT INTO mess_users (mess_id, user_id, role) VALUES (?, ?, ?)`,
		messID, userID, role,
	)
	if err != nil {
		return nil, fmt.Errorf("add mess user: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+messUserCols+` FROM mess_users WHERE id = ?`, id)
	return scanMessUser(row)
}

func (s *MessStore) GetUser(messID, userID int64) (*model.MessUser, error) {
	row := s.db.QueryRow(
		`SELECT `+messUserCols+` FROM mess_users WHERE mess_id = ? AND user_id = ?`,
		messID, userID,
	)
	mu, err := scanMessUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get mess user: %w", err)
	}
	return mu, nil
}

// IsSuperAdmin reports whether a super_admin membership exists for the
// user in the mess. Gate for all administrative writes.
func (s *MessStore) IsSuperAdmin(messID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM mess_users WHERE mess_id = ? AND user_id = ? AND role = ?)`,
		messID, userID, model.RoleSuperAdmin,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check super admin: %w", err)
	}
	return exists, nil
}

// Register creates a user together with their default mess, the
// super_admin membership, and a self member row in one transaction.
func (s *MessStore) Register(username, email, passwordHash string) (*model.User, *model.Mess, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		username, email, passwordHash,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert user: %w", err)
	}
	userID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	result, err = tx.Exec(
		`INSERT INTO messes (name, owner_user_id) VALUES (?, ?)`,
		username+"'s Mess", userID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("insert mess: %w", err)
	}
	messID, err := result.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO mess_users (mess_id, user_id, role) VALUES (?, ?, ?)`,
		messID, userID, model.RoleSuperAdmin,
	); err != nil {
		return nil, nil, fmt.Errorf("insert membership: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO members (mess_id, user_id, name) VALUES (?, ?, ?)`,
		messID, userID, username,
	); err != nil {
		return nil, nil, fmt.Errorf("insert self member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	user, err := scanUser(s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, userID))
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	mess, err := s.GetByID(messID)
	if err != nil {
		return nil, nil, err
	}
	return user, mess, nil
}

// ListUsers returns every membership of a mess, oldest first.
func (s *MessStore) ListUsers(messID int64) ([]model.MessUser, error) {
	rows, err := s.db.Query(
		`SELECT `+messUserCols+` FROM mess_users WHERE mess_id = ? ORDER BY created_at ASC`,
		messID,
	)
	if err != nil {
		return nil, fmt.Errorf("list mess users: %w", err)
	}
	defer rows.Close()

	var users []model.MessUser
	for rows.Next() {
		mu, err := scanMessUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mess user: %w", err)
		}
		users = append(users, *mu)
	}
	return users, rows.Err()
}
